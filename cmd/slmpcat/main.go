// Command slmpcat reads a run of word devices from a PLC and prints
// them, as a minimal demonstration of the slmp client.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/slmpgo/slmp"
	"github.com/slmpgo/slmp/internal/logging"
)

var dial = slmp.Dial

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Getenv); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer, getenv func(string) string) error {
	fs := flag.NewFlagSet("slmpcat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	defaultAddr := strings.TrimSpace(getenv("SLMP_ADDR"))
	if defaultAddr == "" {
		defaultAddr = "192.168.3.39"
	}

	addr := fs.String("addr", defaultAddr, "PLC host or IP address")
	port := fs.Int("port", slmp.DefaultPort, "PLC port")
	device := fs.String("device", "D", "device mnemonic to read (D, W, M, ...)")
	start := fs.Uint("start", 0, "starting address")
	count := fs.Uint("count", 1, "number of words to read")
	ascii := fs.Bool("ascii", false, "use ASCII encoding instead of binary")
	frame4e := fs.Bool("4e", true, "use 4E framing instead of 3E")
	udp := fs.Bool("udp", false, "use UDP instead of TCP")
	timeout := fs.Duration("timeout", 5*time.Second, "dial timeout")
	verbose := fs.Bool("v", false, "log frames at debug level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dev, err := parseDevice(*device)
	if err != nil {
		return err
	}

	profile := slmp.ProtocolProfile{Encoding: slmp.Binary, Frame: slmp.Frame4E, Transport: slmp.TCP}
	if *ascii {
		profile.Encoding = slmp.ASCII
	}
	if !*frame4e {
		profile.Frame = slmp.Frame3E
	}
	if *udp {
		profile.Transport = slmp.UDP
	}

	level := logging.Info
	if *verbose {
		level = logging.Debug
	}
	logger := logging.New(level, logging.Text, out)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := dial(ctx, slmp.Config{Address: *addr, Port: *port, Profile: profile, Logger: logger}, slmp.Target{Network: 0, PC: 0xFF, IO: 0x03FF, Multidrop: 0})
	if err != nil {
		return fmt.Errorf("failed to dial PLC: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("failed to close slmp client: %v", err)
		}
	}()

	values, err := c.ReadWord(context.Background(), dev, uint32(*start), int(*count), 60)
	if err != nil {
		return fmt.Errorf("failed to read %s%d: %w", dev.Name(), *start, err)
	}

	for i, v := range values {
		if _, err := fmt.Fprintf(out, "%s%d = %d (0x%04X)\n", dev.Name(), uint(*start)+uint(i), v, v); err != nil {
			return err
		}
	}
	return nil
}

func parseDevice(name string) (slmp.DeviceCode, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SM":
		return slmp.SM, nil
	case "SD":
		return slmp.SD, nil
	case "X":
		return slmp.X, nil
	case "Y":
		return slmp.Y, nil
	case "M":
		return slmp.M, nil
	case "L":
		return slmp.L, nil
	case "D":
		return slmp.D, nil
	case "W":
		return slmp.W, nil
	case "B":
		return slmp.B, nil
	case "R":
		return slmp.R, nil
	case "ZR":
		return slmp.ZR, nil
	default:
		return 0, fmt.Errorf("unsupported device mnemonic %q (try D, W, M, B, X, Y, R, ZR, SM, SD, L)", name)
	}
}
