// Command quiz is a terminal client for the question API. It fetches a
// question set, resumes from the last saved position, and records answers
// locally so already-answered questions are skipped on the next run.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/internal/core/domain/question"
	"github.com/quizmith/mcqs/internal/progress"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8787", "API base URL")
	topic := flag.String("topic", "", "restrict the quiz to one topic")
	reset := flag.Bool("reset", false, "clear recorded answers before starting")
	dataDir := flag.String("data", defaultDataDir(), "directory for local progress files")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	store, err := progress.NewFileStore(*dataDir)
	if err != nil {
		logger.Fatal("Failed to open progress store: ", err)
	}
	tracker := progress.NewTracker(store, logger)
	if *reset {
		tracker.Reset()
		fmt.Println("Progress cleared.")
	}

	set, err := fetchQuestions(*baseURL, *topic)
	if err != nil {
		logger.Fatal("Failed to fetch questions: ", err)
	}
	if len(set.Questions) == 0 {
		fmt.Println("No questions available.")
		return
	}

	runQuiz(set, tracker)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mcqs"
	}
	return filepath.Join(home, ".mcqs")
}

func fetchQuestions(baseURL, topic string) (*question.Set, error) {
	url := baseURL + "/api/questions"
	if topic != "" {
		url += "?topic=" + topic
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var set question.Set
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &set, nil
}

func runQuiz(set *question.Set, tracker *progress.Tracker) {
	start := tracker.Positions()[set.Name]
	if start >= len(set.Questions) {
		start = 0
	}

	reader := bufio.NewReader(os.Stdin)
	correct, attempted := 0, 0

	for i := start; i < len(set.Questions); i++ {
		q := set.Questions[i]
		tracker.SavePosition(set.Name, i)

		if tracker.IsAnswered(q.ID) {
			continue
		}

		fmt.Printf("\n[%d/%d] %s\n", i+1, len(set.Questions), q.Question)
		for j, opt := range q.Options {
			fmt.Printf("  %d) %s\n", j+1, opt)
		}

		selection, quit := readSelection(reader, len(q.Options))
		if quit {
			fmt.Println("\nProgress saved. Bye.")
			return
		}

		tracker.RecordAnswer(q.ID, selection)
		attempted++
		if q.Options[selection] == q.Answer {
			correct++
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Wrong. The answer is: %s\n", q.Answer)
			if q.Explanation != nil && *q.Explanation != "" {
				fmt.Println(*q.Explanation)
			}
		}
	}

	tracker.SavePosition(set.Name, len(set.Questions))
	fmt.Printf("\nDone. %d/%d correct this session.\n", correct, attempted)
}

// readSelection prompts until it gets a valid 1-based option number, or "q".
func readSelection(reader *bufio.Reader, options int) (selection int, quit bool) {
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, true
		}
		line = strings.TrimSpace(line)
		if line == "q" || line == "quit" {
			return 0, true
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > options {
			fmt.Printf("Enter a number between 1 and %d, or q to quit.\n", options)
			continue
		}
		return n - 1, false
	}
}
