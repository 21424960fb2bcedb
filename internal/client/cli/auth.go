package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/tapmap-app/tapmap/internal/client/api"
	"github.com/tapmap-app/tapmap/internal/client/models"
	"github.com/tapmap-app/tapmap/internal/client/services"
	"github.com/tapmap-app/tapmap/internal/common"
)

// getSimpleText, getOptionalText and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getOptionalText = GetOptionalText
var getPassword = GetPassword

// printErr renders an error for the user. Validation failures list the
// offending fields; everything else goes through api.UserMessage so raw
// internals never reach the screen.
func (a *App) printErr(err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields() {
			fmt.Fprintf(a.out, "%s: %s\n", field, msg)
		}
		return
	}
	fmt.Fprintln(a.out, api.UserMessage(err))
}

// Register prompts for account details and creates a new account. On success
// the user is signed in immediately.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	kind, err := getOptionalText(a.reader, "Account type (user/business)", string(models.AccountUser), a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := services.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: string(password),
		Kind:     models.AccountKind(kind),
	}
	if err := a.session.Register(ctx, req); err != nil {
		a.printErr(err)
		return err
	}

	fmt.Fprintln(a.out, "Welcome to TapMap,", name+"!")
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	creds := services.Credentials{Email: email, Password: string(password)}
	if err := a.session.Login(ctx, creds); err != nil {
		a.printErr(err)
		return err
	}

	if user := a.session.State().User; user != nil {
		fmt.Fprintln(a.out, "Signed in as", user.Name)
	}
	return nil
}

// Logout signs out. It never fails: local state is cleared even when the
// server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// Profile prints the signed-in user.
func (a *App) Profile(ctx context.Context) error {
	state := a.session.State()
	if state.User == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	u := state.User
	fmt.Fprintf(a.out, "Name:  %s\n", u.Name)
	fmt.Fprintf(a.out, "Email: %s\n", u.Email)
	if u.Phone != "" {
		fmt.Fprintf(a.out, "Phone: %s\n", u.Phone)
	}
	if u.BirthDate != "" {
		fmt.Fprintf(a.out, "Born:  %s\n", u.BirthDate)
	}
	fmt.Fprintf(a.out, "Type:  %s\n", u.Kind)
	return nil
}

// EditProfile prompts for the mutable profile fields, keeping current values
// on empty input, and saves the result.
func (a *App) EditProfile(ctx context.Context) error {
	current := a.session.State().User
	if current == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	name, err := getOptionalText(a.reader, "Name", current.Name, a.out)
	if err != nil {
		return err
	}
	phone, err := getOptionalText(a.reader, "Phone", current.Phone, a.out)
	if err != nil {
		return err
	}
	birthDate, err := getOptionalText(a.reader, "Birth date (YYYY-MM-DD)", current.BirthDate, a.out)
	if err != nil {
		return err
	}

	upd := services.ProfileUpdate{Name: name, Phone: phone, BirthDate: birthDate}
	if err := a.session.UpdateProfile(ctx, upd); err != nil {
		a.printErr(err)
		return err
	}

	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

// ChangePassword prompts for the current and new password and rotates it.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	chg := services.PasswordChange{CurrentPassword: string(current), NewPassword: string(next)}
	if err := a.session.ChangePassword(ctx, chg); err != nil {
		a.printErr(err)
		return err
	}

	fmt.Fprintln(a.out, "Password changed")
	return nil
}
