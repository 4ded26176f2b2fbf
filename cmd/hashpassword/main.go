// Command hashpassword prints an argon2id hash suitable for accounts.password_hash.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/spec-kit/chart-eval/internal/auth"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "hashpassword",
		Usage:     "Hash a password for seeding accounts",
		ArgsUsage: "[PASSWORD]",
		Writer:    out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stdin",
				Usage: "Read the password from the first line of stdin",
			},
			&cli.StringFlag{
				Name:  "check",
				Usage: "Verify the password against an existing hash instead of hashing",
			},
		},
		Action: func(c *cli.Context) error {
			password, err := readPassword(c, in)
			if err != nil {
				return err
			}

			if hash := c.String("check"); hash != "" {
				ok, err := auth.ComparePassword(hash, password)
				if err != nil {
					return fmt.Errorf("compare: %w", err)
				}
				if !ok {
					return cli.Exit("password does not match", 2)
				}
				fmt.Fprintln(c.App.Writer, "ok")
				return nil
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash: %w", err)
			}
			fmt.Fprintln(c.App.Writer, hash)
			return nil
		},
	}
}

func readPassword(c *cli.Context, in io.Reader) (string, error) {
	if c.Bool("stdin") {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return "", errors.New("empty password")
		}
		return line, nil
	}
	if c.NArg() != 1 {
		return "", errors.New("expected exactly one PASSWORD argument or --stdin")
	}
	return c.Args().First(), nil
}
