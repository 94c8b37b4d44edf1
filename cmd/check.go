package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"toornament-stats/api/api"
	"toornament-stats/api/logic"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report data problems without changing the database",
}

var checkIdentitiesCmd = &cobra.Command{
	Use:   "identities",
	Short: "List players seen in stored matches that are not on the roster",
	Args:  cobra.NoArgs,
	RunE:  runCheckIdentities,
}

var checkContextsCmd = &cobra.Command{
	Use:   "contexts",
	Short: "List matches whose teams cannot be resolved from the roster",
	Args:  cobra.NoArgs,
	RunE:  runCheckContexts,
}

func init() {
	checkCmd.AddCommand(checkIdentitiesCmd)
	checkCmd.AddCommand(checkContextsCmd)
}

func runCheckIdentities(cmd *cobra.Command, args []string) error {
	a, _, err := openAPI(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeAPI(a)

	unlinked, err := a.CheckIdentities(cmd.Context())
	if err != nil {
		return err
	}
	printIdentities(os.Stdout, unlinked)
	return nil
}

func printIdentities(w io.Writer, unlinked []api.UnlinkedIdentity) {
	if len(unlinked) == 0 {
		fmt.Fprintln(w, "Every participant of the stored matches is on the roster.")
		return
	}
	fmt.Fprintf(w, "%d puuids are not on the roster:\n", len(unlinked))
	for _, identity := range unlinked {
		fmt.Fprintf(w, "%s  %s\n", identity.PUUID, strings.Join(identity.MatchIDs, ","))
	}
}

func runCheckContexts(cmd *cobra.Command, args []string) error {
	a, _, err := openAPI(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeAPI(a)

	issues, err := a.CheckContexts(cmd.Context())
	if err != nil {
		return err
	}
	printContextIssues(os.Stdout, issues)
	return nil
}

func printContextIssues(w io.Writer, issues []logic.ContextIssue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "Every stored match has a context.")
		return
	}
	fmt.Fprintf(w, "%d matches have no context:\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintln(w, issue.Error())
	}
}
