// Package cli implements the interactive TapMap command line client.
//
// The App type wires together the local session database, the HTTP API
// client, the auth and discovery services and the session controller, then
// runs a read-eval-print loop. The prompt reflects the current session
// state, so a user can always see whether they are signed in.
//
// Commands
//
//	Signed out:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - bars [query]   — list or search venues
//	  - bar <id>       — show a single venue
//	  - menu <barID>   — show a venue's menu
//	  - events         — list upcoming events
//	  - exit | quit    — leave the program
//
//	Signed in, additionally:
//	  - profile        — show the signed-in user
//	  - edit           — edit profile fields
//	  - passwd         — change the password
//	  - review <barID> — post a review
//	  - favs           — list favorite venues
//	  - fav <barID>    — add a favorite
//	  - unfav <barID>  — remove a favorite
//	  - logout         — sign out
package cli
