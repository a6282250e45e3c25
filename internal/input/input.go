// Package input reads what the operator supplies: the ИНН list and the date
// window.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"fedlease/internal/config"
	"fedlease/pkg/contracts/domain"
)

// ErrNoInput is returned when the prompt reader ends before a valid window
var ErrNoInput = errors.New("input ended before a valid date range was entered")

// ReadINNs reads one tax identifier per line. Lines are trimmed and blank
// lines skipped; order is kept.
func ReadINNs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var inns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		inns = append(inns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return inns, nil
}

// ParseDate accepts "2022,1,31" (spaces ignored) or "2022-01-31"
func ParseDate(s string) (time.Time, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}

	if !strings.Contains(s, ",") {
		return time.Parse(config.InputDateLayout, s)
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("expected year,month,day: %q", s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number %q: %w", p, err)
		}
		n[i] = v
	}

	d := time.Date(n[0], time.Month(n[1]), n[2], 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow; reject it
	if d.Year() != n[0] || int(d.Month()) != n[1] || d.Day() != n[2] {
		return time.Time{}, fmt.Errorf("no such date: %q", s)
	}
	return d, nil
}

// ParseWindow builds the window from the first and last day as typed
func ParseWindow(first, last string) (domain.DateWindow, error) {
	from, err := ParseDate(first)
	if err != nil {
		return domain.DateWindow{}, err
	}
	to, err := ParseDate(last)
	if err != nil {
		return domain.DateWindow{}, err
	}
	return domain.NewDateWindow(from, to)
}

// PromptWindow asks for the first and last day until the answer is valid.
// Bad answers are logged and the question is asked again.
func PromptWindow(r io.Reader, w io.Writer, logger *slog.Logger) (domain.DateWindow, error) {
	scanner := bufio.NewScanner(r)

	ask := func(prompt string) (string, error) {
		fmt.Fprintln(w, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", ErrNoInput
		}
		return scanner.Text(), nil
	}

	for {
		first, err := ask(config.MsgPromptStartDate)
		if err != nil {
			return domain.DateWindow{}, err
		}
		last, err := ask(config.MsgPromptEndDate)
		if err != nil {
			return domain.DateWindow{}, err
		}

		window, err := ParseWindow(first, last)
		if err == nil {
			return window, nil
		}
		logger.Warn(config.MsgBadDateInput, slog.String("error", err.Error()))
	}
}
