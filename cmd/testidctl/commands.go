package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oyaguma3/cwa-submission-client/internal/queue"
	"github.com/oyaguma3/cwa-submission-client/internal/testid"
	"github.com/spf13/cobra"
)

func newRootCommand(factory envFactory) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "testidctl",
		Short: "MobileTestId and diagnosis key submission CLI",
		Long: `testidctl generates and validates MobileTestIds, drives the registration,
test result and submission flow against the configured servers, and controls
the background decoy traffic state.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})).With("app", "testidctl"))
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.AddCommand(
		newGenerateCmd(),
		newValidateCmd(),
		newRegisterCmd(factory),
		newResultCmd(factory),
		newAckCmd(factory),
		newSubmitCmd(factory),
		newSubmitCoviCmd(factory),
		newDeleteCmd(factory),
		newFakeCmd(factory),
		newStatusCmd(factory),
	)
	return cmd
}

// withEnv は依存関係を組み立ててfnを実行し、終了時に接続を閉じる。
func withEnv(cmd *cobra.Command, factory envFactory, fn func(e *env) error) error {
	e, err := factory(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

// resolveDate は--dateまたは--symptom-onsetから感染可能開始日を決定する。
func resolveDate(date, symptomOnset string) (string, error) {
	if symptomOnset != "" {
		onset, err := time.Parse(testid.DateLayout, symptomOnset)
		if err != nil {
			return "", fmt.Errorf("%w: %q", testid.ErrInvalidDate, symptomOnset)
		}
		return testid.InfectiousDateFromSymptomOnset(onset), nil
	}
	if date == "" {
		return "", errors.New("either --date or --symptom-onset is required")
	}
	return date, nil
}

func addDateFlags(cmd *cobra.Command, date, onset *string) {
	cmd.Flags().StringVar(date, "date", "", "Date patient infectious (YYYY-MM-DD)")
	cmd.Flags().StringVar(onset, "symptom-onset", "", "Symptom onset date (YYYY-MM-DD); infectious date is derived from it")
}

func printTestID(w io.Writer, id *testid.MobileTestID) {
	fmt.Fprintf(w, "MobileTestId:       %s\n", id.FullString())
	fmt.Fprintf(w, "Registration Token: %s\n", id.RegistrationToken())
}

func newGenerateCmd() *cobra.Command {
	var date, onset string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a MobileTestId without registering it",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDate(date, onset)
			if err != nil {
				return err
			}
			id, err := testid.Generate(d)
			if err != nil {
				return err
			}
			printTestID(cmd.OutOrStdout(), id)
			return nil
		},
	}
	addDateFlags(cmd, &date, &onset)
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate CODE",
		Short: "Validate the checksum of a 15-digit MobileTestId",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := testid.Validate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: id=%s checksum=%s\n", id.ID, id.Checksum)
			return nil
		},
	}
}

func newRegisterCmd(factory envFactory) *cobra.Command {
	var date, onset string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Generate and register a MobileTestId for this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDate(date, onset)
			if err != nil {
				return err
			}
			return withEnv(cmd, factory, func(e *env) error {
				id, err := e.service("").RegisterMobileTestID(cmd.Context(), d)
				if err != nil {
					return err
				}
				printTestID(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	addDateFlags(cmd, &date, &onset)
	return cmd
}

func newResultCmd(factory envFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "result",
		Short: "Fetch the test result for the registered MobileTestId",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, factory, func(e *env) error {
				result, err := e.poller().FetchResult(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "result: %s\n", result.Result)
				if result.DateTestCommunicated != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "date test communicated: %s\n", result.DateTestCommunicated)
				}
				return nil
			})
		},
	}
}

func newAckCmd(factory envFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "ack",
		Short: "Acknowledge the download of a terminal test result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, factory, func(e *env) error {
				if err := e.poller().AckTestDownload(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "acknowledged")
				return nil
			})
		},
	}
}

func newSubmitCmd(factory envFactory) *cobra.Command {
	var keyFile, countries string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit diagnosis keys for the registered positive MobileTestId",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, factory, func(e *env) error {
				if err := e.service(keyFile).Submit(cmd.Context(), e.countries(countries)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "submitted")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&keyFile, "keys", "keys.json", "JSON file containing the diagnosis keys")
	cmd.Flags().StringVar(&countries, "countries", "", "Comma-separated visited countries (defaults to SUPPORTED_COUNTRIES)")
	return cmd
}

func newSubmitCoviCmd(factory envFactory) *cobra.Command {
	var keyFile, countries, date, onset string
	cmd := &cobra.Command{
		Use:   "submit-covi CODE",
		Short: "Submit diagnosis keys with an operator-issued covi-code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDate(date, onset)
			if err != nil {
				return err
			}
			return withEnv(cmd, factory, func(e *env) error {
				if err := e.service(keyFile).SubmitWithCoviCode(cmd.Context(), args[0], d, e.countries(countries)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "submitted")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&keyFile, "keys", "keys.json", "JSON file containing the diagnosis keys")
	cmd.Flags().StringVar(&countries, "countries", "", "Comma-separated visited countries (defaults to SUPPORTED_COUNTRIES)")
	addDateFlags(cmd, &date, &onset)
	return cmd
}

func newDeleteCmd(factory envFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the registered MobileTestId and its test result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, factory, func(e *env) error {
				if err := e.service("").DeleteTest(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted")
				return nil
			})
		},
	}
}

func newFakeCmd(factory envFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fake",
		Short: "Inspect and control background decoy traffic",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "onboard",
			Short: "Record onboarding; decoys are allowed after FAKE_REQUEST_INITIAL_DELAY",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, factory, func(e *env) error {
					return e.scheduler().MarkOnboarded(cmd.Context())
				})
			},
		},
		&cobra.Command{
			Use:   "allow",
			Short: "Allow background decoy traffic immediately",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, factory, func(e *env) error {
					return e.scheduler().AllowBackgroundFakeRequests(cmd.Context())
				})
			},
		},
		&cobra.Command{
			Use:   "tick",
			Short: "Enqueue one scheduler tick for the running agent",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, factory, func(e *env) error {
					if err := e.requireEnqueuer(); err != nil {
						return err
					}
					if err := queue.EnqueueTick(cmd.Context(), e.enqueuer); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "tick enqueued")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "poll",
			Short: "Enqueue one pending test result poll for the running agent",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, factory, func(e *env) error {
					if err := e.requireEnqueuer(); err != nil {
						return err
					}
					if err := queue.EnqueuePoll(cmd.Context(), e.enqueuer); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "poll enqueued")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "state",
			Short: "Show the decoy sequence state",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, factory, func(e *env) error {
					s, err := e.scheduler().State(cmd.Context())
					if err != nil {
						return err
					}
					w := cmd.OutOrStdout()
					fmt.Fprintf(w, "allowed: %t\n", s.Allowed)
					fmt.Fprintf(w, "doing:   %t\n", s.Doing)
					fmt.Fprintf(w, "fetches: %d/%d\n", s.FetchIndex, s.AmountOfFetches)
					return nil
				})
			},
		},
	)
	return cmd
}

func newStatusCmd(factory envFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the registration, test result and last submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, factory, func(e *env) error {
				ctx := cmd.Context()
				w := cmd.OutOrStdout()

				reg, err := e.store.GetRegistration(ctx)
				if err != nil {
					return err
				}
				if reg.HasToken() {
					id, err := testid.ParseRegistrationToken(reg.RegistrationToken)
					if err != nil {
						return fmt.Errorf("stored registration: %w", err)
					}
					fmt.Fprintf(w, "registration: %s (registered %s)\n",
						e.fields.WithRegistrationToken(reg.RegistrationToken).Value.String(),
						time.Unix(reg.RegisteredAt, 0).UTC().Format(time.RFC3339))
					fmt.Fprintf(w, "date patient infectious: %s\n", id.DatePatientInfectious)
				} else {
					fmt.Fprintln(w, "registration: none")
				}

				result, err := e.store.GetTestResult(ctx)
				if err != nil {
					return err
				}
				if result != nil {
					fmt.Fprintf(w, "test result:  %s (acknowledged: %t)\n", result.Result, result.Acknowledged)
				} else {
					fmt.Fprintln(w, "test result:  none")
				}

				rec, err := e.store.GetSubmission(ctx)
				if err != nil {
					return err
				}
				if rec != nil {
					fmt.Fprintf(w, "submission:   %d keys at %s (no keys: %t, covi-code: %t)\n",
						rec.KeyCount, time.Unix(rec.SubmittedAt, 0).UTC().Format(time.RFC3339), rec.NoKeys, rec.CoviCode)
				} else {
					fmt.Fprintln(w, "submission:   none")
				}
				return nil
			})
		},
	}
}

