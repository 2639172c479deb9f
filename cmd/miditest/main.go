package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-practice/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "keys":
		port := -1
		if len(os.Args) > 2 {
			n, err := strconv.Atoi(os.Args[2])
			if err != nil {
				fmt.Printf("bad port number %q\n", os.Args[2])
				return
			}
			port = n
		}
		echoKeys(port)
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list        - List all MIDI ports")
	fmt.Println("  keys [n]    - Print key names played on input port n (default: first keyboard)")
	fmt.Println("  poll        - Watch keyboards connect and disconnect")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := gomidi.GetInPorts()
		outs := gomidi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI driver is hung.")
		fmt.Println("macOS fix: sudo killall coreaudiod midiserver")
	}
}

func interrupted() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// echoKeys prints each key as it goes down and up
func echoKeys(port int) {
	ctx, stop := interrupted()
	defer stop()

	var in drivers.In
	if port >= 0 {
		p, err := gomidi.InPort(port)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		in = p
	} else {
		for _, p := range gomidi.GetInPorts() {
			if midi.MatchesPort(p.String(), "") {
				in = p
				break
			}
		}
	}
	if in == nil {
		fmt.Println("No keyboard found")
		return
	}

	kb, err := midi.NewKeyboardController(in.String(), in, -1)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}
	defer kb.Close()

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", in.String())
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-kb.NoteEvents():
			if !ok {
				return
			}
			dir := "up  "
			if evt.Pressed() {
				dir = "down"
			}
			fmt.Printf("  %s %-4s (%3d) vel=%3d ch=%d\n", dir, evt.Key(), evt.Note, evt.Velocity, evt.Channel)
		}
	}
}

func pollDevices() {
	ctx, stop := interrupted()
	defer stop()
	fmt.Println("Watching for keyboards. Connect/disconnect one to test. Ctrl+C to exit.")

	dm := midi.NewDeviceManager("", -1)
	go dm.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-dm.Events():
			if !ok {
				return
			}
			stamp := time.Now().Format("15:04:05")
			switch evt.Type {
			case midi.DeviceConnected:
				fmt.Printf("[%s] connected: %s\n", stamp, evt.ID)
			case midi.DeviceDisconnected:
				fmt.Printf("[%s] disconnected: %s\n", stamp, evt.ID)
			}
		}
	}
}
