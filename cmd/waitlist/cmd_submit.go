package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tabsye/waitlist/signup"
	"github.com/tabsye/waitlist/tracker"
)

var contactFlags struct {
	email  string
	mobile string
}

var submitFlags struct {
	firstName string
	lastName  string
}

// submitCmd runs one waitlist signup
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Add an email or mobile number to the waitlist",
	Example: `  waitlist submit --email guest@example.com --first Ada --last Lovelace
  waitlist submit --mobile 5550100123 --first Ada --last Lovelace`,
	RunE: runSubmit,
}

// checkCmd reports whether a contact value is already registered
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether an email or mobile number is already registered",
	RunE:  runCheck,
}

func init() {
	for _, c := range []*cobra.Command{submitCmd, checkCmd} {
		c.Flags().StringVar(&contactFlags.email, "email", "", "email address")
		c.Flags().StringVar(&contactFlags.mobile, "mobile", "", "10-digit mobile number")
		c.MarkFlagsOneRequired("email", "mobile")
		c.MarkFlagsMutuallyExclusive("email", "mobile")
	}
	submitCmd.Flags().StringVar(&submitFlags.firstName, "first", "", "first name")
	submitCmd.Flags().StringVar(&submitFlags.lastName, "last", "", "last name")
}

// contactFromFlags returns the contact kind and value selected on the command line.
func contactFromFlags() (tracker.Kind, string, error) {
	switch {
	case contactFlags.email != "" && contactFlags.mobile != "":
		return "", "", errors.New("use either --email or --mobile, not both")
	case contactFlags.email != "":
		return tracker.KindEmail, contactFlags.email, nil
	case contactFlags.mobile != "":
		return tracker.KindMobile, contactFlags.mobile, nil
	default:
		return "", "", errors.New("one of --email or --mobile is required")
	}
}

func runSubmit(cmd *cobra.Command, args []string) error {
	kind, value, err := contactFromFlags()
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.signup.Submit(cmd.Context(), signup.Request{
		Kind:      kind,
		Value:     value,
		FirstName: submitFlags.firstName,
		LastName:  submitFlags.lastName,
	})
	if err != nil {
		return errors.New(signup.UserMessage(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "You have been successfully registered for the waitlist!")
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	kind, value, err := contactFromFlags()
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	exists, err := a.signup.Check(cmd.Context(), kind, value)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), exists)
	return nil
}
