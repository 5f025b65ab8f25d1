package trivia_test

import (
	"math/rand"
	"testing"

	"github.com/okian/melodex/internal/domain/model"
	trivia "github.com/okian/melodex/internal/domain/trivia"
	. "github.com/smartystreets/goconvey/convey"
)

func quizCatalog() []model.Song {
	return []model.Song{
		{ID: 1, Title: "Paranoid", Artist: "Black Sabbath", Genre: "Rock", Year: 1970},
		{ID: 2, Title: "Breathe", Artist: "Pink Floyd", Genre: "Rock", Year: 1973},
		{ID: 3, Title: "Painkiller", Artist: "Judas Priest", Genre: "Metal", Year: 1990},
		{ID: 4, Title: "So What", Artist: "Miles Davis", Genre: "Jazz", Year: 1959},
		{ID: 5, Title: "Windowlicker", Artist: "Aphex Twin", Genre: "IDM", Year: 1999},
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a catalog large enough for a quiz", t, func() {
		songs := quizCatalog()

		Convey("When generating questions", func() {
			rng := rand.New(rand.NewSource(7))

			Convey("Then every question has four distinct options", func() {
				for i := 0; i < 25; i++ {
					q, err := trivia.Generate(songs, rng)
					So(err, ShouldBeNil)
					So(q.Prompt, ShouldNotBeEmpty)
					So(q.Options, ShouldHaveLength, 4)

					seen := make(map[string]bool)
					for _, opt := range q.Options {
						So(seen[opt], ShouldBeFalse)
						seen[opt] = true
					}
				}
			})

			Convey("Then the correct index stays in range", func() {
				for i := 0; i < 25; i++ {
					q, err := trivia.Generate(songs, rng)
					So(err, ShouldBeNil)
					So(q.Correct, ShouldBeBetweenOrEqual, 0, 3)
				}
			})
		})

		Convey("When the catalog is too small", func() {
			rng := rand.New(rand.NewSource(7))
			_, err := trivia.Generate(songs[:3], rng)

			Convey("Then it fails", func() {
				So(err, ShouldEqual, trivia.ErrNotEnoughSongs)
			})
		})

		Convey("When a song has no release year", func() {
			rng := rand.New(rand.NewSource(7))
			undated := make([]model.Song, len(songs))
			copy(undated, songs)
			for i := range undated {
				undated[i].Year = 0
			}

			Convey("Then the year prompt is never used", func() {
				for i := 0; i < 25; i++ {
					q, err := trivia.Generate(undated, rng)
					So(err, ShouldBeNil)
					So(q.Prompt, ShouldNotContainSubstring, "released")
				}
			})
		})
	})
}
