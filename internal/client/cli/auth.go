package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/learnkeeper/internal/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var (
	errRegistrationFailed = errors.New("registration failed, email may already exist")
	errSignInFailed       = errors.New("invalid email or password")
	errNotSignedIn        = errors.New("you are not signed in")
)

// SignUp collects name, email, phone and password, registers the account
// and signs it in right away.
func (a *App) SignUp(ctx context.Context) error {
	var (
		form signUpForm
		err  error
	)
	if form.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if form.Phone, err = getSimpleText(a.reader, "Enter phone", a.out); err != nil {
		return err
	}
	if form.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}

	if err := validateForm(form); err != nil {
		return err
	}

	err = a.sessions.SignUp(ctx, session.Candidate{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
	})
	if err != nil {
		a.log.Debug(ctx, "sign-up rejected", "error", err)
		if errors.Is(err, session.ErrDuplicateEmail) || errors.Is(err, session.ErrInvalidCandidate) {
			return errRegistrationFailed
		}
		return err
	}

	if err := a.signIn(ctx, form.Email, form.Password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created, welcome", form.Name)
	return nil
}

// SignIn prompts for credentials and starts a session.
func (a *App) SignIn(ctx context.Context) error {
	var (
		form signInForm
		err  error
	)
	if form.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if form.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}

	if err := validateForm(form); err != nil {
		return err
	}
	if err := a.signIn(ctx, form.Email, form.Password); err != nil {
		return err
	}

	s, _ := a.sessions.Current()
	fmt.Fprintln(a.out, "Signed in as", s.Email)
	return nil
}

func (a *App) signIn(ctx context.Context, email, password string) error {
	err := a.sessions.SignIn(ctx, session.Credentials{Email: email, Password: password})
	if err != nil {
		a.log.Debug(ctx, "sign-in rejected", "error", err)
		if errors.Is(err, session.ErrUnknownUser) || errors.Is(err, session.ErrInvalidCredentials) {
			return errSignInFailed
		}
		return err
	}
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	a.sessions.SignOut(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// WhoAmI prints the active session.
func (a *App) WhoAmI(ctx context.Context) error {
	s, ok := a.sessions.Current()
	if !ok {
		fmt.Fprintln(a.out, "Not signed in (progress is kept for guests)")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s>\n", s.Name, s.Email)
	if s.Phone != "" {
		fmt.Fprintln(a.out, "Phone:", s.Phone)
	}
	fmt.Fprintln(a.out, "Member since:", s.CreatedAt.Local().Format("2006-01-02"))
	if s.LastLogin != nil {
		fmt.Fprintln(a.out, "Last login:", s.LastLogin.Local().Format("2006-01-02 15:04"))
	}
	if s.ProfilePhoto != "" {
		fmt.Fprintln(a.out, "Profile photo: set")
	}
	return nil
}

// Photo sets the profile photo from an image file; "photo -" removes it.
func (a *App) Photo(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: photo <file> | photo -")
	}
	if !a.isLoggedIn() {
		return errNotSignedIn
	}

	ref := ""
	if args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if ref, err = a.sessions.EncodePhoto(data); err != nil {
			return err
		}
	}

	if err := a.sessions.UpdateProfilePhoto(ctx, ref); err != nil {
		return err
	}
	if ref == "" {
		fmt.Fprintln(a.out, "Profile photo removed")
	} else {
		fmt.Fprintln(a.out, "Profile photo updated")
	}
	return nil
}
