package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dustin/go-humanize"
)

func renderUsers(w io.Writer, users []models.UserProfile) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tEMAIL\tROLE\tPHONE\tCREATED")
	for i, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, u.Name, dash(u.Email), dash(string(u.Role)), dash(u.Phone), created(u))
	}
	_ = tw.Flush()
}

func renderProfile(w io.Writer, u models.UserProfile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", dash(u.Name))
	fmt.Fprintf(tw, "Email:\t%s\n", dash(u.Email))
	fmt.Fprintf(tw, "Role:\t%s\n", dash(string(u.Role)))
	fmt.Fprintf(tw, "Phone:\t%s\n", dash(u.Phone))
	fmt.Fprintf(tw, "Bio:\t%s\n", dash(u.Bio))
	if u.CreatedAt != nil {
		fmt.Fprintf(tw, "Member since:\t%s\n", u.CreatedAt.Format("2006-01-02"))
	}
	_ = tw.Flush()
}

func renderForm(w io.Writer, f models.UserForm) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", dash(f.Name))
	fmt.Fprintf(tw, "Email:\t%s\n", dash(f.Email))
	fmt.Fprintf(tw, "Phone:\t%s\n", dash(f.Phone))
	fmt.Fprintf(tw, "Bio:\t%s\n", dash(f.Bio))
	fmt.Fprintf(tw, "Role:\t%s\n", dash(string(f.Role)))
	_ = tw.Flush()
}

func created(u models.UserProfile) string {
	if u.CreatedAt == nil {
		return "-"
	}
	return humanize.Time(*u.CreatedAt)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
