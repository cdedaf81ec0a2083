package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mrelokusa/PopQuiz/internal/appstate"
	"github.com/mrelokusa/PopQuiz/internal/config"
	"github.com/mrelokusa/PopQuiz/internal/database"
	"github.com/mrelokusa/PopQuiz/internal/logging"
	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/services"
	"github.com/mrelokusa/PopQuiz/internal/storage/memory"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	var quizID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the starter quizzes in the terminal (no server needed)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Deep links are built against the same origin the web client
			// uses, so a --quiz id round-trips like a browser URL.
			return runPlayer(cmd.Context(), os.Stdin, os.Stdout, config.Load().BaseURL, quizID)
		},
	}
	cmd.Flags().StringVar(&quizID, "quiz", "", "quiz id to open directly")
	return cmd
}

// localIdentity adapts the auth service to the state container for an
// offline run. There is never a saved session to restore.
type localIdentity struct {
	auth *services.AuthService
}

func (l *localIdentity) Restore(ctx context.Context) (*models.User, error) {
	return nil, errors.New("no saved session")
}

func (l *localIdentity) SignOut(ctx context.Context) error { return nil }

func (l *localIdentity) EnsureProfile(ctx context.Context, user *models.User) error {
	return l.auth.EnsureProfile(ctx, user)
}

func (l *localIdentity) Subscribe() (<-chan services.SessionEvent, func()) {
	return l.auth.Subscribe()
}

func runPlayer(ctx context.Context, in io.Reader, out io.Writer, baseURL, quizID string) error {
	logging.Setup(slog.LevelWarn)

	quizStore := memory.NewQuizStore()
	profileStore := memory.NewProfileStore()
	userStore := memory.NewUserStore()
	resultStore := memory.NewResultStore(quizStore, profileStore)
	if err := database.Seed(ctx, quizStore); err != nil {
		return err
	}

	authService := services.NewAuthService(userStore, profileStore, "local-play")
	quizService := services.NewQuizService(quizStore, nil)
	resultService := services.NewResultService(quizService, resultStore, nil)

	container := appstate.New(&localIdentity{auth: authService}, quizService)
	defer container.Close()

	rawURL := baseURL
	if quizID != "" {
		rawURL += "?quiz=" + quizID
	}
	container.Init(ctx, rawURL)

	reader := bufio.NewReader(in)

	// A deep-linked quiz plays immediately, then falls back to the feed.
	if snap := container.Snapshot(); snap.View == appstate.ViewPlay && snap.ActiveQuiz != nil {
		if err := playQuiz(ctx, reader, out, resultService, snap.ActiveQuiz); err != nil {
			return err
		}
	}

	title := color.New(color.FgMagenta, color.Bold)
	for {
		container.Navigate(ctx, appstate.ViewLanding)
		snap := container.Snapshot()
		if snap.LastError != "" {
			return errors.New(snap.LastError)
		}

		title.Fprintln(out, "\nPopQuiz")
		for i, quiz := range snap.Quizzes {
			fmt.Fprintf(out, "%2d. %s (%d plays)\n", i+1, quiz.Title, quiz.Plays)
		}
		fmt.Fprint(out, "\nPick a quiz number, or q to quit: ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "q") {
			return nil
		}
		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(snap.Quizzes) {
			fmt.Fprintln(out, "Invalid choice.")
			continue
		}

		quiz := snap.Quizzes[idx-1]
		container.SetActiveQuiz(&quiz)
		container.Navigate(ctx, appstate.ViewPlay)
		if err := playQuiz(ctx, reader, out, resultService, &quiz); err != nil {
			return err
		}
	}
}

func playQuiz(ctx context.Context, reader *bufio.Reader, out io.Writer, results *services.ResultService, quiz *models.Quiz) error {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(out, "\n%s\n", quiz.Title)
	if quiz.Description != "" {
		fmt.Fprintln(out, quiz.Description)
	}

	var picks []services.Pick
	for i, question := range quiz.Questions {
		fmt.Fprintf(out, "\nQ%d: %s\n", i+1, question.Text)
		for j, answer := range question.Answers {
			fmt.Fprintf(out, "  %d. %s\n", j+1, answer.Text)
		}

		answer := readAnswer(reader, out, len(question.Answers))
		if answer == nil {
			fmt.Fprintln(out, "Skipping question.")
			continue
		}
		picks = append(picks, services.Pick{
			QuestionID: question.ID,
			AnswerID:   question.Answers[*answer].ID,
		})
	}

	outcome, err := results.Play(ctx, quiz.ID, picks, nil)
	if err != nil {
		return err
	}

	result := color.New(color.FgGreen, color.Bold)
	result.Fprintf(out, "\n%s %s\n", outcome.Outcome.Image, outcome.Outcome.Title)
	fmt.Fprintln(out, outcome.Outcome.Description)
	if outcome.Stats != nil {
		fmt.Fprintf(out, "\n%d%% of players got this outcome", outcome.Stats.SharePercent)
		if outcome.Stats.CrowdMatch {
			fmt.Fprint(out, " - you match the crowd!")
		}
		fmt.Fprintln(out)
	}
	return nil
}

// readAnswer prompts until a valid 1-based option number arrives, giving up
// after three bad inputs (nil means skip).
func readAnswer(reader *bufio.Reader, out io.Writer, optionCount int) *int {
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= optionCount {
			idx := n - 1
			return &idx
		}
		fmt.Fprintf(out, "Enter a number between 1 and %d.\n", optionCount)
	}
	return nil
}
