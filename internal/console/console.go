// Package console implements the interactive line-oriented front end of
// the reservation system.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/iliyamo/cabin-seat-reservation/internal/seating"
	"github.com/iliyamo/cabin-seat-reservation/internal/service"
)

const (
	menuPrompt     = "Add [P]assenger, Add [G]roup, [C]ancel Reservation, Print Seating [A]vailability Chart, Print [M]anifest, [Q]uit"
	classPrompt    = "Service Class: [F]irst or [E]conomy."
	retryPrompt    = "Not enough seats available in the chosen service class.\nPlease [C]hoose another class or [R]eturn to the menu"
	cancelPrompt   = "Cancellation: [I]ndividual or [G]roup"
	membersPrompt  = "Names (Please separate each member's name by a comma):  "
	cabinFullMsg   = "Airplane Seats are All Reserved!!!"
	duplicateMsg   = "The name is already in the system. Please try another reservation"
	invalidRequest = "Invalid request. Please try again"

	// class selection attempts before returning to the menu
	classAttempts = 2
)

// Console drives a Manager from text commands read from in.
type Console struct {
	mgr   *service.Manager
	store service.Store
	in    *bufio.Scanner
	out   io.Writer
}

// New returns a console that saves to store when the session ends.
func New(mgr *service.Manager, store service.Store, in io.Reader, out io.Writer) *Console {
	return &Console{mgr: mgr, store: store, in: bufio.NewScanner(in), out: out}
}

// Run shows the menu until Q or end of input, then saves the cabin.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.println(menuPrompt)
		cmd, err := c.readLine()
		if err != nil {
			return c.quit(ctx)
		}
		switch strings.ToUpper(strings.TrimSpace(cmd)) {
		case "P":
			err = c.addPassenger(ctx)
		case "G":
			err = c.addGroup(ctx)
		case "C":
			err = c.cancel(ctx)
		case "A":
			err = c.printList(false)
		case "M":
			err = c.printList(true)
		case "Q":
			return c.quit(ctx)
		default:
			c.println(invalidRequest)
		}
		if errors.Is(err, io.EOF) {
			return c.quit(ctx)
		}
	}
}

func (c *Console) quit(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.mgr.Save(ctx, c.store); err != nil {
		log.Printf("console: save failed: %v", err)
		return err
	}
	return nil
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

func (c *Console) println(s string) { fmt.Fprintln(c.out, s) }

func (c *Console) prompt(s string) (string, error) {
	c.println(s)
	return c.readLine()
}

// promptClass asks until the answer names a class.
func (c *Console) promptClass() (seating.Class, error) {
	for {
		ans, err := c.prompt(classPrompt)
		if err != nil {
			return 0, err
		}
		switch strings.ToUpper(strings.TrimSpace(ans)) {
		case "F":
			return seating.Premium, nil
		case "E":
			return seating.Standard, nil
		}
		c.println("Invalid request. Please try again.")
	}
}

// chooseClass picks a class with room for n passengers.  It reports false when
// the user returns to the menu or runs out of attempts.
func (c *Console) chooseClass(n int) (seating.Class, bool, error) {
	for attempt := 0; attempt < classAttempts; attempt++ {
		class, err := c.promptClass()
		if err != nil {
			return 0, false, err
		}
		if c.mgr.HasCapacity(class, n) {
			return class, true, nil
		}
		ans, err := c.prompt(retryPrompt)
		if err != nil {
			return 0, false, err
		}
		if strings.EqualFold(strings.TrimSpace(ans), "R") {
			return 0, false, nil
		}
	}
	return 0, false, nil
}

func (c *Console) addPassenger(ctx context.Context) error {
	if c.mgr.IsFull() {
		c.println(cabinFullMsg)
		return nil
	}
	name, err := c.prompt("Name:  ")
	if err != nil {
		return err
	}
	if c.mgr.IsNameTaken(false, name) {
		c.println(duplicateMsg)
		return nil
	}
	class, ok, err := c.chooseClass(1)
	if err != nil {
		return err
	}
	if !ok {
		c.println("Failed to add the passenger. Please try again")
		return nil
	}

	pp := "Seat Preference: [W]indow or [A]isle."
	if class == seating.Standard {
		pp = "Seat preference: [W]indow, [C]enter or [A]isle."
	}
	for {
		ans, err := c.prompt(pp)
		if err != nil {
			return err
		}
		pref, perr := seating.ParseSeatType(ans)
		if perr != nil {
			continue
		}
		p, err := c.mgr.ReserveIndividual(ctx, name, class, pref)
		switch {
		case err == nil:
			fmt.Fprintf(c.out, "%s is seated at %s.\n", p.Name, p.Slot.Label())
			return nil
		case errors.Is(err, seating.ErrNoMatchingSeat):
			continue
		default:
			c.println("Failed to add the passenger. Please try again")
			return nil
		}
	}
}

func (c *Console) addGroup(ctx context.Context) error {
	if c.mgr.IsFull() {
		c.println(cabinFullMsg)
		return nil
	}
	group, err := c.prompt("Group Name:  ")
	if err != nil {
		return err
	}
	if c.mgr.IsNameTaken(true, group) {
		c.println(duplicateMsg)
		return nil
	}
	line, err := c.prompt(membersPrompt)
	if err != nil {
		return err
	}
	names := strings.Split(line, ",")

	class, ok, err := c.chooseClass(len(names))
	if err != nil {
		return err
	}
	if ok {
		members, err := c.mgr.ReserveGroup(ctx, group, class, names)
		if err == nil {
			for _, p := range members {
				fmt.Fprintf(c.out, "%s is seated at %s.\n", p.Name, p.Slot.Label())
			}
			return nil
		}
		log.Printf("console: group %q not seated: %v", group, err)
	}
	c.println("Failed to add the passengers. Please try again")
	return nil
}

func (c *Console) cancel(ctx context.Context) error {
	kind, err := c.prompt(cancelPrompt)
	if err != nil {
		return err
	}
	var group bool
	switch strings.ToUpper(strings.TrimSpace(kind)) {
	case "I":
	case "G":
		group = true
	default:
		c.println("Cannot recognize the option.")
		return nil
	}

	label, who := "Name:  ", "Passenger"
	if group {
		label, who = "Group Name:  ", "Group"
	}
	name, err := c.prompt(label)
	if err != nil {
		return err
	}
	if group {
		_, err = c.mgr.CancelGroup(ctx, name)
	} else {
		_, err = c.mgr.CancelIndividual(ctx, name)
	}
	switch {
	case err == nil:
	case errors.Is(err, seating.ErrNotSeated):
		fmt.Fprintf(c.out, "%s %s is not on the reservation list.\n", who, strings.TrimSpace(name))
	default:
		c.println("Failed to remove the reservation. Please try Again")
	}
	return nil
}

func (c *Console) printList(manifest bool) error {
	class, err := c.promptClass()
	if err != nil {
		return err
	}
	if manifest {
		c.println(c.mgr.ManifestList(class))
	} else {
		c.println(c.mgr.AvailabilityChart(class))
	}
	return nil
}
