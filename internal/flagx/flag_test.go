package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	got := FilterArgs([]string{"-a", "http://x", "-z", "nope"}, []string{"-a"})
	assert.Equal(t, []string{"-a", "http://x"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	got := FilterArgs([]string{"--config=conf.json", "-other=1"}, []string{"--config"})
	assert.Equal(t, []string{"--config=conf.json"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	got := FilterArgs([]string{"-v", "-a", "addr"}, []string{"-v"})
	assert.Equal(t, []string{"-v"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestJsonConfigFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cli", "-c", "conf.json", "-a", "ignored"}
	assert.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"cli"}
	assert.Equal(t, "", JsonConfigFlags())
}
