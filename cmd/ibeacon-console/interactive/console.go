// Package interactive provides the interactive shell of ibeacon-console.
//
// The shell drives a wired tracker without a radio: advertisements are typed
// in, and time only moves when the user advances the clock.
package interactive

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/ibeacon-tracker/ibeacon-go/internal/app"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// Console executes shell commands against an App.
type Console struct {
	app   *app.App
	clock *clock.Mock
	out   io.Writer
}

// New creates a console. The app must have been built with clk as its clock.
func New(a *app.App, clk *clock.Mock, out io.Writer) *Console {
	c := &Console{app: a, clock: clk, out: out}
	a.Tracker.OnEvent(c.handleEvent)
	return c
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ibeacon> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	c.out = rl.Stdout()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return nil
		}

		if !c.Execute(line) {
			cancel()
			return nil
		}
	}
}

// Execute runs one command line. It returns false when the shell should exit.
func (c *Console) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "adv", "a":
		c.cmdAdv(args)
	case "gone":
		c.cmdGone(args)
	case "sweep":
		c.cmdSweep()
	case "tick", "t":
		c.cmdTick(args)
	case "devices", "d":
		c.cmdDevices()
	case "status", "s":
		c.cmdStatus()
	case "ignored":
		c.cmdIgnored()
	case "min-rssi":
		c.cmdMinRSSI(args)
	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return false
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
iBeacon Console Commands:
  Advertisements:
    adv <address> <uuid> <major> <minor> <rssi> [power] [name]
                       - Inject an iBeacon advertisement
    gone <address>     - Report a watched address as unavailable now

  Time:
    tick <duration>    - Advance the clock and run the liveness checks (e.g. tick 5m)
    sweep              - Run the liveness checks without advancing the clock

  Inspection:
    devices            - List entities
    status             - Show the tracking state
    ignored            - List ignored addresses
    min-rssi <dbm>     - Change the signal threshold

  General:
    help               - Show this help
    quit               - Exit console`)
}

func (c *Console) handleEvent(ev tracker.Event) {
	switch ev.Kind {
	case tracker.EventNew:
		fmt.Fprintf(c.out, "[%s] %s %s (%q)\n", c.clock.Now().Format(time.TimeOnly), ev.Kind, ev.ID, ev.Name)
	default:
		fmt.Fprintf(c.out, "[%s] %s %s\n", c.clock.Now().Format(time.TimeOnly), ev.Kind, ev.ID)
	}
}

func (c *Console) cmdAdv(args []string) {
	if len(args) < 5 {
		fmt.Fprintln(c.out, "Usage: adv <address> <uuid> <major> <minor> <rssi> [power] [name]")
		fmt.Fprintln(c.out, "  Example: adv AA:BB:CC:DD:EE:01 e2c56db5-dffb-48d2-b060-d0f5a71096e0 1 2 -60 -59 Kitchen")
		return
	}

	id, err := uuid.Parse(args[1])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid uuid: %v\n", err)
		return
	}
	major, err := strconv.ParseUint(args[2], 10, 16)
	if err != nil {
		fmt.Fprintf(c.out, "Invalid major: %v\n", err)
		return
	}
	minor, err := strconv.ParseUint(args[3], 10, 16)
	if err != nil {
		fmt.Fprintf(c.out, "Invalid minor: %v\n", err)
		return
	}
	rssi, err := strconv.Atoi(args[4])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid rssi: %v\n", err)
		return
	}
	power := int64(-59)
	if len(args) > 5 {
		if power, err = strconv.ParseInt(args[5], 10, 8); err != nil {
			fmt.Fprintf(c.out, "Invalid power: %v\n", err)
			return
		}
	}
	var name string
	if len(args) > 6 {
		name = strings.Join(args[6:], " ")
	}

	c.app.Scanner.Ingest(tracker.Observation{
		Address:          strings.ToUpper(args[0]),
		RSSI:             rssi,
		Name:             name,
		ManufacturerData: ibeacon.Encode(id, uint16(major), uint16(minor), int8(power)),
	})
}

func (c *Console) cmdGone(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: gone <address>")
		return
	}
	address := strings.ToUpper(args[0])
	if !slices.Contains(c.app.Tracker.Snapshot().Watched, address) {
		fmt.Fprintf(c.out, "Address %s is not watched\n", address)
		return
	}
	c.app.Tracker.HandleUnavailable(address)
}

func (c *Console) cmdSweep() {
	c.app.Scanner.CheckUnavailable()
	c.app.Tracker.Sweep()
}

func (c *Console) cmdTick(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: tick <duration>")
		return
	}
	d, err := time.ParseDuration(args[0])
	if err != nil || d <= 0 {
		fmt.Fprintf(c.out, "Invalid duration: %s\n", args[0])
		return
	}
	c.clock.Set(c.clock.Now().Add(d))
	fmt.Fprintf(c.out, "Clock: %s\n", c.clock.Now().Format(time.DateTime))
	c.cmdSweep()
}

func (c *Console) cmdDevices() {
	entities := c.app.Entities.Entities()
	if len(entities) == 0 {
		fmt.Fprintln(c.out, "No devices")
		return
	}
	for _, e := range entities {
		fmt.Fprintf(c.out, "  %-8s %s\n", e.State(), e.UniqueID)
		fmt.Fprintf(c.out, "           name=%q rssi=%d", e.Name, e.Advertisement.RSSI)
		if d, ok := e.Distance(); ok {
			fmt.Fprintf(c.out, " distance=%.2fm", d)
		}
		fmt.Fprintln(c.out)
	}
}

func (c *Console) cmdStatus() {
	snap := c.app.Tracker.Snapshot()
	fmt.Fprintf(c.out, "Clock:              %s\n", c.clock.Now().Format(time.DateTime))
	fmt.Fprintf(c.out, "Min RSSI:           %d dBm\n", snap.MinRSSI)
	fmt.Fprintf(c.out, "Fixed identities:   %d\n", len(snap.UniqueIDs))
	for _, id := range snap.UniqueIDs {
		fmt.Fprintf(c.out, "  %s\n", id)
	}
	fmt.Fprintf(c.out, "Random groups:      %d\n", len(snap.RandomGroups))
	for _, id := range snap.RandomGroups {
		state := "available"
		if slices.Contains(snap.UnavailableGroups, id) {
			state = "unavailable"
		}
		fmt.Fprintf(c.out, "  %s (%s)\n", id, state)
	}
	fmt.Fprintf(c.out, "Watched addresses:  %d\n", len(snap.Watched))
	fmt.Fprintf(c.out, "Ignored addresses:  %d\n", len(snap.Ignored))
}

func (c *Console) cmdIgnored() {
	ignored := c.app.Tracker.Snapshot().Ignored
	if len(ignored) == 0 {
		fmt.Fprintln(c.out, "No ignored addresses")
		return
	}
	for _, address := range ignored {
		fmt.Fprintf(c.out, "  %s\n", address)
	}
}

func (c *Console) cmdMinRSSI(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(c.out, "Min RSSI: %d dBm\n", c.app.Tracker.Snapshot().MinRSSI)
		return
	}
	rssi, err := strconv.Atoi(args[0])
	if err != nil || rssi > 0 {
		fmt.Fprintf(c.out, "Invalid rssi: %s\n", args[0])
		return
	}
	c.app.Tracker.SetMinRSSI(rssi)
	fmt.Fprintf(c.out, "Min RSSI: %d dBm\n", c.app.Tracker.Snapshot().MinRSSI)
}
