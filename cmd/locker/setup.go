package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/locker/internal/config"
	"github.com/mmcdole/locker/internal/domain"
	"github.com/mmcdole/locker/internal/kakao"
	"github.com/mmcdole/locker/internal/log"
)

// newSetupCmd prompts for the Kakao REST API key and writes the config file
func newSetupCmd(configPath *string) *cobra.Command {
	var (
		verify  bool
		backend string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store your Kakao REST API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Locker setup")
			fmt.Fprintln(out, "━━━━━━━━━━━━")

			key, err := promptSecret(cmd.InOrStdin(), out, "Kakao REST API key: ")
			if err != nil {
				return fmt.Errorf("failed to read API key: %w", err)
			}
			if key == "" {
				return errors.New("API key cannot be empty")
			}
			cfg.Kakao.APIKey = key
			if backend != "" {
				cfg.Locker.Backend = backend
			}

			if verify {
				fmt.Fprintln(out, "Verifying key...")
				if err := verifyKey(cmdContext(cmd), cfg.Kakao); err != nil {
					return err
				}
			}

			if err := config.Save(cfg, *configPath); err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "✓ Configuration saved!")
			fmt.Fprintln(out, "Run locker again to start the application.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "check the key with a test search before saving")
	cmd.Flags().StringVar(&backend, "backend", "", "locker backend: bolt, sqlite, redis or memory")
	return cmd
}

// promptSecret reads hidden input from a terminal and a plain line otherwise
func promptSecret(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out) // Add newline after hidden input
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func verifyKey(ctx context.Context, cfg config.KakaoConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client := kakao.NewClient(cfg.BaseURL, cfg.APIKey, kakao.WithPageSize(1), kakao.WithLogger(log.Null()))
	_, err := client.SearchImages(ctx, "kakao")
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrAuthFailed):
		return errors.New("the API key was rejected")
	default:
		return fmt.Errorf("could not verify the API key: %w", err)
	}
}
