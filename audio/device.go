package audio

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// SelectDevice asks the user to pick an output on the terminal. A single
// device is returned without prompting.
func SelectDevice(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no output devices found")
	}
	if len(devices) == 1 {
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	idx, err := pickDevice(devices, os.Stdin, os.Stdout)
	if err != nil {
		return nil, err
	}
	return &devices[idx], nil
}

// pickDevice runs the arrow-key picker over raw terminal input and returns
// the chosen index. Ctrl+C and q abort.
func pickDevice(devices []DeviceInfo, in io.Reader, out io.Writer) (int, error) {
	cursor := 0
	render := func(first bool) {
		if !first {
			fmt.Fprintf(out, "\x1b[%dA", len(devices)+2)
		}
		fmt.Fprint(out, "\r\x1b[J")
		fmt.Fprint(out, "Play the battle theme on (↑/↓, Enter to confirm):\r\n\r\n")
		for i, d := range devices {
			tag := ""
			if IsBluetooth(d.Name) {
				tag = " \x1b[33m[BT, theme may lag]\x1b[0m"
			}
			if i == cursor {
				fmt.Fprintf(out, "  \x1b[1;31m♪ %s%s\x1b[0m\r\n", d.Name, tag)
			} else {
				fmt.Fprintf(out, "    %s%s\r\n", d.Name, tag)
			}
		}
	}
	render(true)

	buf := make([]byte, 3)
	for {
		n, err := in.Read(buf)
		if err != nil {
			return 0, fmt.Errorf("reading input: %w", err)
		}

		switch {
		case n == 1 && (buf[0] == '\r' || buf[0] == '\n'):
			fmt.Fprint(out, "\r\n")
			return cursor, nil
		case n == 1 && (buf[0] == 3 || buf[0] == 'q'):
			fmt.Fprint(out, "\r\n")
			return 0, fmt.Errorf("device selection cancelled")
		case n == 1 && buf[0] == 'j', n == 3 && buf[0] == 0x1b && buf[2] == 'B':
			cursor = min(cursor+1, len(devices)-1)
		case n == 1 && buf[0] == 'k', n == 3 && buf[0] == 0x1b && buf[2] == 'A':
			cursor = max(cursor-1, 0)
		}
		render(false)
	}
}
