package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ordpad/internal/app"
	"github.com/roach88/ordpad/internal/catalog"
	"github.com/roach88/ordpad/internal/money"
	"github.com/roach88/ordpad/internal/notice"
	"github.com/roach88/ordpad/internal/order"
)

// Shell views.
const (
	viewCatalog = "catalog"
	viewOrder   = "order"
)

const shellHelp = `Commands:
  view catalog|order     switch view
  add <name> <price>     register a product
  del <id>               remove a product from the catalog
  pick <id>              add one unit of a product to the order
  inc <id>               one more unit of an order line
  dec <id>               one less unit (removes the line at zero)
  qty <id> <n>           set the quantity of an order line
  drop <id>              remove an order line
  clear                  empty the order
  help                   show this help
  quit                   leave the shell
`

// NewShellCommand creates the interactive shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive catalog and order editor",
		Long: `Start an interactive session over the catalog and the current order.

The shell shows one view at a time (catalog or order) and redraws it after
every command. Messages about the last command stay on screen for the
configured notice_ttl.`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Format != "text" {
				return NewExitError(ExitCommandError, "shell supports text output only")
			}
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session, _ *OutputFormatter) error {
				board := notice.NewBoard(s.cfg.NoticeTTL, time.Now)
				sh := newShell(s.state, s.money, board, cmd.OutOrStdout())
				sh.prompt = "ordpad> "
				return sh.Run(ctx, cmd.InOrStdin())
			})
		},
	}
}

// shell is the line-oriented editor behind "ordpad shell".
type shell struct {
	state  *app.State
	money  money.Formatter
	board  *notice.Board
	out    io.Writer
	view   string
	prompt string
}

func newShell(state *app.State, m money.Formatter, board *notice.Board, out io.Writer) *shell {
	return &shell{
		state: state,
		money: m,
		board: board,
		out:   out,
		view:  viewCatalog,
	}
}

// Run draws the current view, then executes one command per input line
// until quit or end of input.
func (sh *shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	sh.render()
	for {
		fmt.Fprint(sh.out, sh.prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, redraw := sh.exec(ctx, line)
		if quit {
			return nil
		}
		if redraw {
			sh.render()
		}
	}
}

// exec runs one command line.
func (sh *shell) exec(ctx context.Context, line string) (quit, redraw bool) {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "quit", "exit", "q":
		return true, false
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
		return false, false
	case "view":
		sh.switchView(args)
	case "add":
		sh.addProduct(ctx, strings.TrimSpace(line[len(fields[0]):]))
	case "del":
		sh.withID(args, "del <id>", func(id int64) { sh.removeProduct(ctx, id) })
	case "pick":
		sh.withID(args, "pick <id>", func(id int64) { sh.pick(ctx, id) })
	case "inc":
		sh.withLine(args, "inc <id>", func(id int64) bool { return sh.state.Increment(ctx, id) })
	case "dec":
		sh.withLine(args, "dec <id>", func(id int64) bool { return sh.state.Decrement(ctx, id) })
	case "drop":
		sh.withLine(args, "drop <id>", func(id int64) bool { return sh.state.RemoveFromOrder(ctx, id) })
	case "qty":
		sh.setQuantity(ctx, args)
	case "clear":
		if sh.state.ClearOrder(ctx) {
			sh.saved(notice.Success, "order cleared")
		} else {
			sh.board.Post(notice.Info, "order is already empty")
		}
		sh.view = viewOrder
	default:
		sh.board.Post(notice.Error, fmt.Sprintf("unknown command %q, type help for a list", fields[0]))
	}
	return false, true
}

func (sh *shell) switchView(args []string) {
	if len(args) != 1 || (args[0] != viewCatalog && args[0] != viewOrder) {
		sh.board.Post(notice.Error, "usage: view catalog|order")
		return
	}
	sh.view = args[0]
}

// addProduct takes everything up to the last word as the name and the last
// word as the price, so names may contain spaces.
func (sh *shell) addProduct(ctx context.Context, rest string) {
	i := strings.LastIndexAny(rest, " \t")
	if i < 0 {
		sh.board.Post(notice.Error, "usage: add <name> <price>")
		return
	}
	p, err := sh.state.AddProduct(ctx, rest[:i], rest[i+1:])
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			sh.board.Post(notice.Error, verr.Error())
			return
		}
		sh.board.Post(notice.Error, err.Error())
		return
	}
	sh.view = viewCatalog
	sh.saved(notice.Success, fmt.Sprintf("added %s (#%d)", p.Name, p.ID))
}

func (sh *shell) removeProduct(ctx context.Context, id int64) {
	p, ok := sh.state.Product(id)
	if !ok || !sh.state.RemoveProduct(ctx, id) {
		sh.board.Post(notice.Info, fmt.Sprintf("no product #%d", id))
		return
	}
	sh.saved(notice.Success, fmt.Sprintf("removed %s", p.Name))
}

func (sh *shell) pick(ctx context.Context, id int64) {
	p, ok := sh.state.Product(id)
	if !ok {
		sh.board.Post(notice.Info, fmt.Sprintf("no product #%d", id))
		return
	}
	if !sh.state.AddToOrder(ctx, id) {
		sh.view = viewOrder
		sh.board.Post(notice.Error, quantityLimitMessage(id))
		return
	}
	sh.view = viewOrder
	sh.saved(notice.Success, fmt.Sprintf("added %s to the order", p.Name))
}

func (sh *shell) setQuantity(ctx context.Context, args []string) {
	if len(args) != 2 {
		sh.board.Post(notice.Error, "usage: qty <id> <n>")
		return
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		sh.board.Post(notice.Error, fmt.Sprintf("invalid quantity %q", args[1]))
		return
	}
	if qty > order.MaxQuantity {
		sh.board.Post(notice.Error, fmt.Sprintf("quantity must be at most %d", order.MaxQuantity))
		return
	}
	sh.withLine(args[:1], "qty <id> <n>", func(id int64) bool { return sh.state.SetQuantity(ctx, id, qty) })
}

func (sh *shell) withID(args []string, usage string, fn func(id int64)) {
	if len(args) != 1 {
		sh.board.Post(notice.Error, "usage: "+usage)
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		sh.board.Post(notice.Error, err.Error())
		return
	}
	fn(id)
}

// withLine runs an order-line edit and reports the outcome.
func (sh *shell) withLine(args []string, usage string, edit func(id int64) bool) {
	sh.withID(args, usage, func(id int64) {
		sh.view = viewOrder
		line, ok := sh.state.Line(id)
		if !ok {
			sh.board.Post(notice.Info, fmt.Sprintf("no order line #%d", id))
			return
		}
		if !edit(id) {
			if line.Quantity >= order.MaxQuantity {
				sh.board.Post(notice.Error, quantityLimitMessage(id))
				return
			}
			sh.board.Post(notice.Info, "order unchanged")
			return
		}
		if updated, ok := sh.state.Line(id); ok {
			sh.saved(notice.Success, fmt.Sprintf("%s x%d", updated.Name, updated.Quantity))
			return
		}
		sh.saved(notice.Success, fmt.Sprintf("removed %s from the order", line.Name))
	})
}

// saved posts text unless the write-through failed, in which case the
// failure is shown instead.
func (sh *shell) saved(level notice.Level, text string) {
	if err := sh.state.LastSaveError(); err != nil {
		sh.board.Post(notice.Error, fmt.Sprintf("%s, but not saved: %v", text, err))
		return
	}
	sh.board.Post(level, text)
}

func (sh *shell) render() {
	renderNotice(sh.out, sh.board)
	switch sh.view {
	case viewOrder:
		fmt.Fprintln(sh.out, "== Order ==")
		renderOrder(sh.out, sh.state.Lines(), sh.state.Total(), sh.money)
	default:
		fmt.Fprintln(sh.out, "== Catalog ==")
		renderCatalog(sh.out, sh.state.Products(), sh.money)
	}
}
