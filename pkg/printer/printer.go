// Package printer drives ESC/POS thermal receipt printers.
package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer receives finished ESC/POS byte streams.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	IsConnected() bool
}

const (
	TypeUSB     = "usb"
	TypeNetwork = "network"
	TypeFile    = "file"
	TypeNone    = "none"
)

// Options selects and addresses a printer
type Options struct {
	Type string
	// Path is the device file for usb printers or the spool file for file printers
	Path    string
	Address string
}

// New builds the printer described by opts. An empty type means no printer.
func New(opts Options) (Printer, error) {
	switch opts.Type {
	case TypeUSB:
		if opts.Path == "" {
			return nil, fmt.Errorf("printer: device path is required for usb printers")
		}
		return &devicePrinter{path: opts.Path, flags: os.O_WRONLY}, nil
	case TypeFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("printer: path is required for file printers")
		}
		return &devicePrinter{path: opts.Path, flags: os.O_WRONLY | os.O_CREATE | os.O_APPEND}, nil
	case TypeNetwork:
		if opts.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printers")
		}
		return &networkPrinter{address: opts.Address, dialTimeout: 5 * time.Second}, nil
	case TypeNone, "":
		return nullPrinter{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, file or none)", opts.Type)
	}
}

// devicePrinter writes each job to a device node such as /dev/usb/lp0, or to a plain file.
type devicePrinter struct {
	path  string
	flags int
}

func (p *devicePrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, p.flags, 0o644)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *devicePrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// networkPrinter sends each job over a fresh TCP connection, usually port 9100.
type networkPrinter struct {
	address     string
	dialTimeout time.Duration
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	dialer := net.Dialer{Timeout: p.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

type nullPrinter struct{}

func (nullPrinter) Print(context.Context, []byte) error { return nil }

func (nullPrinter) IsConnected() bool { return false }
