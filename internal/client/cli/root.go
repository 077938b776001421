package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	list := a.sessions.List()
	switch len(list) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("(%s)", list[0].AccountID)
	default:
		return fmt.Sprintf("(%d accounts)", len(list))
	}
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to wikisync CLI (type 'help' for commands)")

	for {
		fmt.Printf("wikisync %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: login, logout, accounts, fetch <pageId> <file>, publish <file>, exit")
		case "login":
			a.report(a.Login(ctx))
		case "logout":
			a.report(a.Logout(ctx, args))
		case "accounts":
			a.Accounts(ctx)
		case "fetch":
			a.report(a.Fetch(ctx, args))
		case "publish":
			a.report(a.Publish(ctx, args))
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func (a *App) report(err error) {
	if err != nil {
		fmt.Println("Error:", err.Error())
	}
}
