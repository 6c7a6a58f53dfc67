package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"foe/playback"
)

// runTestMode drives the page without a terminal. Commands are read from
// stdin one per line:
//
//	FRIEND | ENEMY | RESET   activate a button
//	HIDE                     page lost focus
//	UNLOAD                   page is going away (ends the run)
//	WAIT <ms>                pause before reading the next command
//	STATUS                   print the current state
//	QUIT                     end the run
func runTestMode(page pageModel) pageModel {
	return runScript(page, os.Stdin, os.Stdout)
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func runScript(page pageModel, in io.Reader, out io.Writer) pageModel {
	msgs := make(chan tea.Msg, 32)
	lines := make(chan string)

	var exec func(cmd tea.Cmd)
	exec = func(cmd tea.Cmd) {
		if cmd == nil {
			return
		}
		go func() {
			msg := cmd()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, c := range batch {
					exec(c)
				}
				return
			}
			if msg != nil {
				msgs <- msg
			}
		}()
	}

	// Stdin driver in background -- handles WAIT itself so timers keep firing
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			cmd := strings.TrimSpace(scanner.Text())
			if ms, ok := strings.CutPrefix(cmd, "WAIT "); ok {
				n, err := strconv.Atoi(strings.TrimSpace(ms))
				if err != nil {
					fmt.Fprintf(out, "ERR bad wait %q\n", ms)
					continue
				}
				time.Sleep(time.Duration(n) * time.Millisecond)
				continue
			}
			if cmd != "" {
				lines <- cmd
			}
		}
	}()

	var model tea.Model = page
	update := func(msg tea.Msg) {
		var cmd tea.Cmd
		model, cmd = model.Update(msg)
		if ev, ok := msg.(playbackEventMsg); ok {
			printEvent(out, playback.Event(ev))
		}
		exec(cmd)
	}

	exec(model.Init())
	fmt.Fprintln(out, "READY")
	for {
		select {
		case msg := <-msgs:
			update(msg)
		case line, ok := <-lines:
			if !ok {
				return model.(pageModel)
			}
			switch line {
			case "FRIEND":
				update(keyMsg('f'))
			case "ENEMY":
				update(keyMsg('e'))
			case "RESET":
				update(keyMsg('r'))
			case "HIDE":
				update(tea.BlurMsg{})
			case "STATUS":
				printStatus(out, model.(pageModel))
			case "UNLOAD", "QUIT":
				update(keyMsg('q'))
				printStatus(out, model.(pageModel))
				return model.(pageModel)
			default:
				fmt.Fprintf(out, "ERR unknown command %q\n", line)
			}
		}
	}
}

func printEvent(out io.Writer, ev playback.Event) {
	switch ev.Type {
	case playback.EventStarted:
		fmt.Fprintln(out, "EVENT started")
	case playback.EventLoop:
		fmt.Fprintf(out, "EVENT loop %d\n", ev.Loop)
	case playback.EventStopped:
		fmt.Fprintf(out, "EVENT stopped %s loops=%d\n", ev.Reason, ev.Loop)
	}
}

func printStatus(out io.Writer, m pageModel) {
	panel := "hidden"
	switch m.panel {
	case panelEntering:
		panel = "entering"
	case panelShown:
		panel = "shown"
	case panelLeaving:
		panel = "leaving"
	}
	kind := "friend"
	if m.kind == kindEnemy {
		kind = "enemy"
	}
	fmt.Fprintf(out, "STATUS state=%s panel=%s kind=%s loops=%d choices=%d\n", m.player.State(), panel, kind, m.loops, m.choices)
}
