package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/status"
	"github.com/spf13/cobra"
)

// NewSetStatusCommand creates the set-status command.
func NewSetStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <order-id>=<status>...",
		Short: "Change order statuses",
		Long: `Change the status of one or more orders.

Every order is read first. Each change is sent as soon as it is selected;
a second change for an order whose first one is still in flight is
ignored. Changes the server does not confirm are rolled back and reported.

Valid statuses: ` + joinStatuses(order.Statuses()) + `

Example:
  orderctl set-status 17=shipped 18=cancelled`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(cmd, rootOpts, args)
		},
	}
}

type assignment struct {
	status string
	id     order.ID
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		idPart, st, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not <order-id>=<status>", errs.ErrInvalidRequest, arg)
		}
		id, err := order.ParseID(idPart)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{id: id, status: st})
	}
	return out, nil
}

func setStatus(cmd *cobra.Command, opts *RootOptions, args []string) error {
	assignments, err := parseAssignments(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	api, cred, err := opts.session(ctx)
	if err != nil {
		return err
	}

	board := status.NewBoard(api,
		status.WithTimeout(opts.config.OrderAPI.Timeout),
		status.WithNotifier(status.NewWriterNotifier(cmd.ErrOrStderr(), opts.config.Notice.Language)),
		status.WithLogger(opts.logger),
	)

	// Every control starts from the server's current value.
	loaded := make(map[order.ID]bool)
	for _, a := range assignments {
		if loaded[a.id] {
			continue
		}
		o, err := api.GetOrder(ctx, cred, a.id)
		if err != nil {
			return err
		}
		if err = board.Load(o); err != nil {
			return err
		}
		loaded[a.id] = true
	}

	// An order may be named twice; every accepted change is kept.
	var transitions []*status.Transition
	failed := 0

	for _, a := range assignments {
		t, err := board.Select(ctx, cred, a.id, a.status)
		switch {
		case errors.Is(err, errs.ErrTransitionPending):
			fmt.Fprintf(cmd.ErrOrStderr(), "order %d: %s, %q ignored\n", a.id, errs.ErrTransitionPending, a.status)
		case err != nil:
			// The notifier already told the operator.
			failed++
		default:
			transitions = append(transitions, t)
		}
	}

	board.Wait()

	for _, t := range transitions {
		if t.Wait() != nil {
			failed++
		}
	}

	results := statusResults(board.Snapshots(), transitions)
	if opts.Format == "json" {
		err = writeJSON(cmd.OutOrStdout(), results)
	} else {
		err = writeStatusResults(cmd.OutOrStdout(), results)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d status changes failed", failed, len(assignments))
	}
	return nil
}

func joinStatuses(statuses []order.Status) string {
	s := make([]string, len(statuses))
	for i, st := range statuses {
		s[i] = string(st)
	}
	return strings.Join(s, ", ")
}
