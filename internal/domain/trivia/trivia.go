// Package trivia generates multiple-choice quiz questions from the
// catalog.
package trivia

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/okian/melodex/internal/domain/model"
)

// ErrNotEnoughSongs means the catalog is too small for a quiz round.
var ErrNotEnoughSongs = errors.New("need at least 4 songs for trivia")

const optionCount = 4

// Question is one quiz round: a prompt, shuffled title options, and the
// index of the correct answer.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// Generate picks a subject song and three decoys and asks which title
// matches the subject's artist, genre, or release year.
func Generate(songs []model.Song, rng *rand.Rand) (Question, error) {
	if len(songs) < optionCount {
		return Question{}, ErrNotEnoughSongs
	}

	perm := rng.Perm(len(songs))
	picked := make([]model.Song, optionCount)
	for i := range picked {
		picked[i] = songs[perm[i]]
	}
	subject := picked[0]

	prompts := []string{
		fmt.Sprintf("Which song is by %s?", subject.Artist),
		fmt.Sprintf("Which song is from the %s genre?", subject.Genre),
	}
	if subject.Year != 0 {
		prompts = append(prompts, fmt.Sprintf("Which song was released in %d?", subject.Year))
	}
	prompt := prompts[rng.Intn(len(prompts))]

	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	q := Question{Prompt: prompt, Options: make([]string, optionCount)}
	for i, s := range picked {
		q.Options[i] = s.Title
		if s.ID == subject.ID {
			q.Correct = i
		}
	}
	return q, nil
}
