// Command affinecli encrypts and decrypts text files with the Block Affine
// cipher.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"affine-cipher-backend/config"
	"affine-cipher-backend/crypto"
	"affine-cipher-backend/textio"
)

const (
	parseErrorMessage    = "Encountered error while parsing user input. Validate your input and try again."
	sanitizeMessage      = "Warning! Illegal characters detected, cleaning and proceeding."
	multiplierPrompt     = "Input multiplier for Block Affine cipher: "
	offsetPrompt         = "Input offset for Block Affine cipher: "
	maxInputBytes  int64 = 64 << 20
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type options struct {
	mode       string
	in         string
	out        string
	multiplier string
	offset     string
	blockSize  int
	digitWidth int
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("affinecli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.mode, "mode", "encrypt", "Operation: encrypt or decrypt")
	fs.StringVar(&opts.in, "in", "", "Path to input file (default plaintext.txt or ciphertext.txt)")
	fs.StringVar(&opts.out, "out", "", "Path to output file (default ciphertext.txt or finalplaintextoutput.txt)")
	fs.StringVar(&opts.multiplier, "m", "", "Multiplier; prompted for when omitted")
	fs.StringVar(&opts.offset, "b", "", "Offset; prompted for when omitted")
	fs.IntVar(&opts.blockSize, "block-size", crypto.DefaultBlockSize, "Symbols per block")
	fs.IntVar(&opts.digitWidth, "digit-width", crypto.DefaultDigitWidth, "Decimal digits per symbol")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.mode {
	case "encrypt":
		opts.in = withDefault(opts.in, "plaintext.txt")
		opts.out = withDefault(opts.out, "ciphertext.txt")
	case "decrypt":
		opts.in = withDefault(opts.in, "ciphertext.txt")
		opts.out = withDefault(opts.out, "finalplaintextoutput.txt")
	default:
		fmt.Fprintf(stderr, "unknown mode %q, expected encrypt or decrypt\n", opts.mode)
		return options{}, errUsage
	}
	return opts, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level, err := config.ParseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	input := bufio.NewReader(stdin)
	multiplier, err := integerArg(opts.multiplier, multiplierPrompt, input, stdout)
	if err != nil {
		fmt.Fprintln(stdout, parseErrorMessage)
		return errUsage
	}
	offset, err := integerArg(opts.offset, offsetPrompt, input, stdout)
	if err != nil {
		fmt.Fprintln(stdout, parseErrorMessage)
		return errUsage
	}

	cipher, err := crypto.NewBlockAffine(crypto.Config{
		Multiplier: multiplier,
		Offset:     offset,
		BlockSize:  opts.blockSize,
		DigitWidth: opts.digitWidth,
	})
	if err != nil {
		return err
	}
	logger.Debug("cipher ready",
		slog.String("modulus", cipher.Modulus().String()),
		slog.String("inverse", cipher.Inverse().String()))

	msg, err := textio.ReadFile(opts.in, maxInputBytes)
	if err != nil {
		return err
	}

	var result string
	if opts.mode == "encrypt" {
		var removed int
		result, removed, err = cipher.EncryptText(msg)
		if removed > 0 {
			fmt.Fprintln(stdout, sanitizeMessage)
			logger.Warn("illegal characters removed", slog.Int("removed", removed))
		}
	} else {
		result, err = cipher.Decrypt(textio.TrimLineEnding(msg))
	}
	if err != nil {
		return err
	}

	if err := textio.WriteFile(opts.out, result); err != nil {
		return err
	}
	logger.Info("done",
		slog.String("mode", opts.mode),
		slog.String("in", opts.in),
		slog.String("out", opts.out))
	return nil
}

// integerArg parses flagValue, or prompts for a line on stdin when the flag
// was not given.
func integerArg(flagValue, prompt string, in *bufio.Reader, out io.Writer) (int64, error) {
	raw := flagValue
	if raw == "" {
		fmt.Fprint(out, prompt)
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return 0, err
		}
		raw = line
	}
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
