package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"career-advisor/internal/domain"
	"career-advisor/internal/service"
)

func main() {
	strategy := flag.String("strategy", service.StrategyRules, "recommender strategy: rules or distance")
	maxResults := flag.Int("max", service.DefaultMaxRecommendations, "maximum recommended fields")
	flag.Parse()

	logger := zap.NewExample()
	defer logger.Sync()

	fmt.Println("===== Career Assessment =====")
	fmt.Printf("Answer each statement from %d (strongly disagree) to %d (strongly agree).\n", service.LikertMin, service.LikertMax)

	if err := run(bufio.NewReader(os.Stdin), os.Stdout, logger, *strategy, *maxResults); err != nil {
		logger.Fatal("assessment failed", zap.Error(err))
	}
}

// run hace el cuestionario completo contra reader e imprime el reporte en out.
func run(reader *bufio.Reader, out io.Writer, logger *zap.Logger, strategy string, maxResults int) error {
	svc := service.NewAssessmentService(logger, nil, service.NewFieldRecommender(strategy), maxResults)

	answers, err := askQuestions(reader, out, svc.Questions())
	if err != nil {
		return err
	}
	if err := svc.ValidateAnswers(answers); err != nil {
		return fmt.Errorf("validate answers: %w", err)
	}

	scores, interp, matches := svc.Score(answers)
	logger.Debug("assessment scored", zap.Int("answers", len(answers)), zap.Int("fields", len(matches)))
	printReport(out, scores, interp, matches)
	return nil
}

// askQuestions repite cada pregunta hasta recibir un valor valido. EOF corta el cuestionario
// y devuelve lo respondido hasta ese punto.
func askQuestions(reader *bufio.Reader, out io.Writer, questions []domain.SurveyQuestion) (map[string]int, error) {
	answers := make(map[string]int, len(questions))
	for i, q := range questions {
		for {
			fmt.Fprintf(out, "\n[%d/%d] %s\n> ", i+1, len(questions), q.Text)
			line, err := reader.ReadString('\n')
			value, ok := parseLikert(line)
			if ok {
				answers[q.ID] = value
				break
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					if len(answers) == 0 {
						return nil, errors.New("no answers provided")
					}
					return answers, nil
				}
				return nil, fmt.Errorf("read answer: %w", err)
			}
			fmt.Fprintf(out, "Please enter a number between %d and %d.\n", service.LikertMin, service.LikertMax)
		}
	}
	return answers, nil
}

func parseLikert(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < service.LikertMin || v > service.LikertMax {
		return 0, false
	}
	return v, true
}

func printReport(out io.Writer, scores domain.TraitScores, interp domain.TraitInterpretation, matches []domain.FieldMatch) {
	fmt.Fprintln(out, "\n--- Trait scores (0-100) ---")
	for _, c := range domain.TraitOrder {
		fmt.Fprintf(out, "%-18s %6.2f\n", c, scores.Get(c))
	}

	fmt.Fprintln(out, "\n--- Interpretation ---")
	fmt.Fprintln(out, interp.Summary)
	if len(interp.Strengths) > 0 {
		fmt.Fprintf(out, "Strengths: %s\n", strings.Join(interp.Strengths, ", "))
	}
	if len(interp.GrowthAreas) > 0 {
		fmt.Fprintf(out, "Growth areas: %s\n", strings.Join(interp.GrowthAreas, ", "))
	}

	fmt.Fprintln(out, "\n--- Recommended fields ---")
	for i, m := range matches {
		if m.Confidence != nil {
			fmt.Fprintf(out, "%d. %s (%.2f%%)\n", i+1, m.Field, *m.Confidence)
			continue
		}
		fmt.Fprintf(out, "%d. %s\n", i+1, m.Field)
	}
}
