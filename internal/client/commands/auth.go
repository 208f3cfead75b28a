package commands

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"latrones/internal/client/api"
	"latrones/internal/client/display"
)

func (r *Registry) registerAuthCommands() {
	r.Register(&Command{
		Name:        "register",
		ShortName:   "r",
		Description: "Register a new user",
		Usage:       "register <username> [password] [email]",
		Handler:     registerHandler,
	})

	r.Register(&Command{
		Name:        "login",
		ShortName:   "l",
		Description: "Login with credentials",
		Usage:       "login <username> [password]",
		Handler:     loginHandler,
	})

	r.Register(&Command{
		Name:        "logout",
		ShortName:   "o",
		Description: "Clear authentication",
		Usage:       "logout",
		Handler:     logoutHandler,
	})

	r.Register(&Command{
		Name:        "whoami",
		ShortName:   "i",
		Description: "Show current user",
		Usage:       "whoami",
		Handler:     whoamiHandler,
	})
}

// passwordArg returns args[index] or prompts for it without echo
func passwordArg(s Session, args []string, index int) (string, error) {
	if len(args) > index {
		return args[index], nil
	}

	fmt.Fprint(s.Output(), display.Yellow+"Password: "+display.Reset)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(s.Output())
	if err != nil {
		return "", err
	}
	return string(bytePassword), nil
}

func applyAuth(s Session, resp *api.AuthResponse, action string) {
	s.SetAuthToken(resp.Token)
	s.SetCurrentUser(resp.UserID)
	s.SetUsername(resp.Username)
	s.GetClient().SetToken(resp.Token)

	out := s.Output()
	fmt.Fprintf(out, "%s%s successfully%s\n", display.Green, action, display.Reset)
	fmt.Fprintf(out, "User ID: %s\n", resp.UserID)
	fmt.Fprintf(out, "Username: %s\n", resp.Username)
}

func registerHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: register <username> [password] [email]")
	}

	password, err := passwordArg(s, args, 1)
	if err != nil {
		return err
	}

	email := ""
	if len(args) > 2 {
		email = args[2]
	}

	resp, err := s.GetClient().Register(args[0], password, email)
	if err != nil {
		return err
	}

	applyAuth(s, resp, "Registered")
	return nil
}

func loginHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: login <username> [password]")
	}

	password, err := passwordArg(s, args, 1)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().Login(args[0], password)
	if err != nil {
		return err
	}

	applyAuth(s, resp, "Logged in")
	return nil
}

func logoutHandler(s Session, args []string) error {
	s.SetAuthToken("")
	s.SetCurrentUser("")
	s.SetUsername("")
	s.GetClient().SetToken("")

	fmt.Fprintf(s.Output(), "%sLogged out%s\n", display.Green, display.Reset)
	return nil
}

func whoamiHandler(s Session, args []string) error {
	out := s.Output()

	if s.GetAuthToken() == "" {
		fmt.Fprintf(out, "%sNot authenticated%s\n", display.Yellow, display.Reset)
		return nil
	}

	user, err := s.GetClient().GetCurrentUser()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%sCurrent User:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(out, "  User ID:  %s\n", user.UserID)
	fmt.Fprintf(out, "  Username: %s\n", user.Username)
	if user.Email != "" {
		fmt.Fprintf(out, "  Email:    %s\n", user.Email)
	}
	if user.Temporary {
		fmt.Fprintf(out, "  Account:  temporary\n")
	}
	fmt.Fprintf(out, "  Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
