package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"git.sr.ht/~jackmordaunt/decks"
	"git.sr.ht/~jackmordaunt/decks/browse"
)

const help = `commands:
  ls                  show the current page
  next | prev         change page
  show <row>          toggle the detail view for a row
  add <name> [card]   save a deck with the given cards
  rename <new name>   rename the deck in the detail view
  rm <row>            delete a row (asks for confirmation)
  clear               delete every saved deck
  help                show this message
  quit                exit
`

// Shell is a line oriented presenter over a browse session.
type Shell struct {
	Session *browse.Session
	In      io.Reader
	Out     io.Writer
}

// Run reads commands until EOF or "quit".
func (sh *Shell) Run() error {
	scanner := bufio.NewScanner(sh.In)
	sh.list()
	for {
		fmt.Fprint(sh.Out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.Out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, args, _ := strings.Cut(line, " ")
		args = strings.TrimSpace(args)
		switch cmd {
		case "ls", "list":
			sh.list()
		case "next":
			if sh.Session.NextPage() {
				sh.list()
			} else {
				fmt.Fprintln(sh.Out, "already on the last page")
			}
		case "prev", "previous":
			if sh.Session.PreviousPage() {
				sh.list()
			} else {
				fmt.Fprintln(sh.Out, "already on the first page")
			}
		case "show":
			sh.show(args)
		case "add":
			sh.add(args)
		case "rename":
			sh.rename(args)
		case "rm", "delete":
			if err := sh.remove(scanner, args); err != nil {
				return err
			}
		case "clear":
			sh.clear()
		case "help", "?":
			fmt.Fprint(sh.Out, help)
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Fprintf(sh.Out, "unknown command %q, try help\n", cmd)
		}
	}
}

func (sh *Shell) list() {
	if sh.Session.Empty() {
		fmt.Fprintln(sh.Out, "no saved decks. create a new deck with: add <name> [card...]")
		return
	}
	for ii, d := range sh.Session.Page() {
		fmt.Fprintf(sh.Out, "%d. %s\n", ii+1, d.Label())
	}
	if sh.Session.ShowPagination() {
		var prev, next = " ", " "
		if sh.Session.HasPrevious() {
			prev = "<"
		}
		if sh.Session.HasNext() {
			next = ">"
		}
		fmt.Fprintf(sh.Out, "%s %s %s\n", prev, sh.Session.Indicator(), next)
	}
}

// row resolves a 1-based row number on the current page.
func (sh *Shell) row(arg string) (decks.Deck, bool) {
	n, err := strconv.Atoi(arg)
	page := sh.Session.Page()
	if err != nil || n < 1 || n > len(page) {
		fmt.Fprintf(sh.Out, "no row %q on this page\n", arg)
		return decks.Deck{}, false
	}
	return page[n-1], true
}

func (sh *Shell) show(arg string) {
	d, ok := sh.row(arg)
	if !ok {
		return
	}
	if !sh.Session.Toggle(d) {
		fmt.Fprintf(sh.Out, "closed %s\n", d.Name)
		return
	}
	fmt.Fprintf(sh.Out, "%s (%d cards)\n", d.Name, len(d.Cards))
	for _, c := range d.Cards {
		fmt.Fprintf(sh.Out, "  - %s\n", c.Name)
	}
}

func (sh *Shell) add(args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		fmt.Fprintln(sh.Out, "usage: add <name> [card...]")
		return
	}
	d := decks.Deck{Name: fields[0]}
	for _, c := range fields[1:] {
		d.Cards = append(d.Cards, decks.Card{Name: c})
	}
	d, err := sh.Session.Add(d)
	if err != nil {
		fmt.Fprintf(sh.Out, "cannot add deck: %v\n", err)
		return
	}
	fmt.Fprintf(sh.Out, "saved %s\n", d.Label())
}

func (sh *Shell) rename(newName string) {
	d, ok, err := sh.Session.RenameSelected(newName)
	switch {
	case errors.Is(err, browse.ErrNoSelection):
		fmt.Fprintln(sh.Out, "select a deck first with: show <row>")
	case err != nil:
		fmt.Fprintf(sh.Out, "cannot rename: %v\n", err)
	case !ok:
		fmt.Fprintln(sh.Out, "name unchanged")
	default:
		fmt.Fprintf(sh.Out, "renamed to %s\n", d.Name)
	}
}

func (sh *Shell) remove(scanner *bufio.Scanner, arg string) error {
	d, ok := sh.row(arg)
	if !ok {
		return nil
	}
	if err := sh.Session.RequestDelete(d); err != nil {
		fmt.Fprintf(sh.Out, "cannot delete: %v\n", err)
		return nil
	}
	fmt.Fprintf(sh.Out, "delete %s? [y/N] ", d.Name)
	if !scanner.Scan() {
		sh.Session.CancelDelete()
		return scanner.Err()
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		if _, err := sh.Session.ConfirmDelete(); err != nil {
			fmt.Fprintf(sh.Out, "cannot delete: %v\n", err)
			return nil
		}
		fmt.Fprintf(sh.Out, "deleted %s\n", d.Name)
	default:
		sh.Session.CancelDelete()
		fmt.Fprintln(sh.Out, "kept")
	}
	return nil
}

func (sh *Shell) clear() {
	if !sh.Session.ShowClear() {
		fmt.Fprintln(sh.Out, "nothing to clear")
		return
	}
	if err := sh.Session.ClearAll(); err != nil {
		fmt.Fprintf(sh.Out, "cannot clear: %v\n", err)
		return
	}
	fmt.Fprintln(sh.Out, "cleared all decks")
}
