package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/osobist/wikisync/internal/client/models"
	"github.com/osobist/wikisync/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for wiki credentials and runs the full sign-in sequence:
// CSRF handshake, credential POST, cookie capture, encrypted persistence.
//
// An empty username or password abandons the attempt with ActionCancelled
// before anything is sent to the server. The password byte slice is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter wiki username", os.Stdout)
	if err != nil {
		return err
	}
	if userName == "" {
		return common.NewErrorf(common.KindActionCancelled, "login abandoned")
	}

	password, err := getPassword(os.Stdout, "Enter wiki password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) == 0 {
		return common.NewErrorf(common.KindActionCancelled, "login abandoned")
	}

	_, err = a.sessions.Create(ctx, userName, string(password))
	return err
}

// Logout removes the session for the named account, or for the only signed-in
// account when exactly one exists.
func (a *App) Logout(ctx context.Context, args []string) error {
	accountID := ""
	if len(args) > 0 {
		accountID = args[0]
	} else {
		list := a.sessions.List()
		switch len(list) {
		case 0:
			return common.NewErrorf(common.KindAuthorizationFailed, "not signed in")
		case 1:
			accountID = list[0].AccountID
		default:
			return fmt.Errorf("several accounts are signed in, usage: logout <account>")
		}
	}
	return a.sessions.Remove(ctx, accountID)
}

// Accounts prints the signed-in accounts, ordered by account id.
func (a *App) Accounts(ctx context.Context) {
	list := a.sessions.List()
	if len(list) == 0 {
		fmt.Println("No accounts are signed in.")
		return
	}
	for _, s := range list {
		fmt.Printf("%s (signed in %s)\n", s.AccountID, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

// resolveSession supplies the sync orchestrator with a session, starting an
// interactive login when no account is signed in. An abandoned login surfaces
// as ActionCancelled from Login.
func (a *App) resolveSession(ctx context.Context) (*models.Session, error) {
	if list := a.sessions.List(); len(list) > 0 {
		return list[0], nil
	}

	fmt.Println("No account is signed in, please log in first.")
	if err := a.Login(ctx); err != nil {
		return nil, err
	}

	list := a.sessions.List()
	if len(list) == 0 {
		return nil, common.NewErrorf(common.KindActionCancelled, "login abandoned")
	}
	return list[0], nil
}
