package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/service/directory"
	"github.com/heartmarshall/teamqueries/internal/service/stats"
)

func writeStats(w io.Writer, c stats.Counts, unread int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range domain.Statuses {
		fmt.Fprintf(tw, "%s\t%d\n", s, c.Of(s))
	}
	if c.Other > 0 {
		fmt.Fprintf(tw, "Other\t%d\n", c.Other)
	}
	fmt.Fprintf(tw, "Total\t%d\n", c.Total())
	fmt.Fprintf(tw, "Unread notifications\t%d\n", unread)
	tw.Flush()
}

func writeLogs(w io.Writer, logs []domain.Request, total int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NO\tREQUESTER\tKIND\tSTATUS\tACTION BY\tQUERY")
	for _, r := range logs {
		no, by := "---", "-"
		if r.RequestNo != nil {
			no = fmt.Sprintf("#%d", *r.RequestNo)
		}
		if r.ActionBy != nil {
			by = r.ActionBy.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", no, r.Requester.Name, r.Kind, r.Status, by, r.Text)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d of %d requests\n", len(logs), total)
}

func writeUsers(w io.Writer, users []domain.User, c directory.RoleCounts) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tMOBILE\tROLE\tLEAVE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Mobile, u.Role, u.PaidLeaveBalance.String())
	}
	tw.Flush()
	fmt.Fprintf(w, "%d users, %d admins, %d members\n", c.Total, c.Admins, c.Members)
}
