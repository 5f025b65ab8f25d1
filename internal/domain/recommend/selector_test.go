package recommend_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/okian/melodex/internal/domain/model"
	recommend "github.com/okian/melodex/internal/domain/recommend"
	. "github.com/smartystreets/goconvey/convey"
)

func catalogFixture() []model.Song {
	return []model.Song{
		{ID: 1, Title: "Paranoid", Artist: "Black Sabbath", Genre: "Rock", Year: 1970},
		{ID: 2, Title: "Breathe", Artist: "Pink Floyd", Genre: "Rock", Year: 1973},
		{ID: 3, Title: "Painkiller", Artist: "Judas Priest", Genre: "Metal", Year: 1990},
		{ID: 4, Title: "So What", Artist: "Miles Davis", Genre: "Jazz", Year: 1959},
	}
}

func TestEligible(t *testing.T) {
	Convey("Given a catalog and a profile", t, func() {
		songs := catalogFixture()

		Convey("When nothing is blacklisted", func() {
			p := model.NewProfile()

			Convey("Then every song is eligible", func() {
				So(recommend.Eligible(songs, p), ShouldHaveLength, len(songs))
			})
		})

		Convey("When one song is blacklisted", func() {
			p := model.NewProfile()
			p.AddBlacklist(2)

			eligible := recommend.Eligible(songs, p)

			Convey("Then it is excluded from the eligible set", func() {
				So(eligible, ShouldHaveLength, 3)
				for _, s := range eligible {
					So(s.ID, ShouldNotEqual, 2)
				}
			})
		})

		Convey("When everything is blacklisted", func() {
			p := model.NewProfile()
			for _, s := range songs {
				p.AddBlacklist(s.ID)
			}

			Convey("Then the eligible set is empty", func() {
				So(recommend.Eligible(songs, p), ShouldBeEmpty)
			})
		})
	})
}

func TestDaily(t *testing.T) {
	Convey("Given a selector with a fixed clock", t, func() {
		songs := catalogFixture()

		Convey("When the day ordinal advances", func() {
			p := model.NewProfile()

			Convey("Then the pick walks the id-sorted eligible set", func() {
				for day, wantID := range map[int]int{0: 1, 1: 2, 2: 3, 3: 4, 4: 1} {
					s := recommend.New(recommend.WithClock(recommend.FixedClock(day)))
					song, err := s.Daily(songs, p)
					So(err, ShouldBeNil)
					So(song.ID, ShouldEqual, wantID)
				}
			})
		})

		Convey("When the same day is asked twice", func() {
			s := recommend.New(recommend.WithClock(recommend.FixedClock(7)))
			p := model.NewProfile()

			first, err1 := s.Daily(songs, p)
			second, err2 := s.Daily(songs, p)

			Convey("Then the pick is deterministic", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first.ID, ShouldEqual, second.ID)
			})
		})

		Convey("When a song is blacklisted", func() {
			// Two rock songs and one metal song; hiding id 2 leaves
			// a two-song rotation.
			trimmed := songs[:3]
			p := model.NewProfile()
			p.AddBlacklist(2)

			Convey("Then the rotation spans only the eligible songs", func() {
				s0 := recommend.New(recommend.WithClock(recommend.FixedClock(0)))
				s1 := recommend.New(recommend.WithClock(recommend.FixedClock(1)))
				s2 := recommend.New(recommend.WithClock(recommend.FixedClock(2)))

				song0, _ := s0.Daily(trimmed, p)
				song1, _ := s1.Daily(trimmed, p)
				song2, _ := s2.Daily(trimmed, p)

				So(song0.ID, ShouldEqual, 1)
				So(song1.ID, ShouldEqual, 3)
				So(song2.ID, ShouldEqual, 1)
			})
		})

		Convey("When the whole catalog is blacklisted", func() {
			s := recommend.New(recommend.WithClock(recommend.FixedClock(0)))
			p := model.NewProfile()
			for _, song := range songs {
				p.AddBlacklist(song.ID)
			}

			_, err := s.Daily(songs, p)

			Convey("Then it reports no eligible songs", func() {
				So(err, ShouldEqual, recommend.ErrNoEligible)
			})
		})
	})
}

func TestRandom(t *testing.T) {
	Convey("Given a selector with a seeded random source", t, func() {
		songs := catalogFixture()
		s := recommend.New(recommend.WithRand(rand.New(rand.NewSource(1))))

		Convey("When picking with a blacklist in place", func() {
			p := model.NewProfile()
			p.AddBlacklist(1)
			p.AddBlacklist(4)

			Convey("Then the pick is always eligible", func() {
				for i := 0; i < 50; i++ {
					song, err := s.Random(songs, p)
					So(err, ShouldBeNil)
					So(song.ID, ShouldBeIn, []int{2, 3})
				}
			})
		})

		Convey("When the catalog is empty", func() {
			_, err := s.Random(nil, model.NewProfile())

			Convey("Then it reports no eligible songs", func() {
				So(err, ShouldEqual, recommend.ErrNoEligible)
			})
		})
	})
}

func TestDiscover(t *testing.T) {
	Convey("Given a selector and a profile with ratings", t, func() {
		songs := catalogFixture()
		s := recommend.New(recommend.WithRand(rand.New(rand.NewSource(42))))

		Convey("When the user loves a rock song", func() {
			p := model.NewProfile()
			p.SetRating(1, 10)   // Black Sabbath, Rock
			p.AddBlacklist(1)    // hide the rated song itself

			song, err := s.Discover(songs, p)

			Convey("Then the other rock song wins the tier", func() {
				So(err, ShouldBeNil)
				So(song.ID, ShouldEqual, 2)
			})
		})

		Convey("When the rated song stays eligible", func() {
			p := model.NewProfile()
			p.SetRating(1, 10)

			song, err := s.Discover(songs, p)

			Convey("Then genre and artist weights favor it", func() {
				So(err, ShouldBeNil)
				// id 1 scores genre(10)+artist(10); id 2 only genre(10)
				So(song.ID, ShouldEqual, 1)
			})
		})

		Convey("When the user has no ratings", func() {
			p := model.NewProfile()

			Convey("Then the pick is uniform over the eligible set", func() {
				for i := 0; i < 20; i++ {
					song, err := s.Discover(songs, p)
					So(err, ShouldBeNil)
					So(song.ID, ShouldBeBetweenOrEqual, 1, 4)
				}
			})
		})

		Convey("When ratings reference deleted songs", func() {
			p := model.NewProfile()
			p.SetRating(99, 10)

			_, err := s.Discover(songs, p)

			Convey("Then the unknown rating is ignored", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestFilters(t *testing.T) {
	Convey("Given a catalog", t, func() {
		songs := catalogFixture()
		p := model.NewProfile()

		Convey("When filtering by genre case-insensitively", func() {
			matches, err := recommend.ByGenre(songs, p, "rock")

			Convey("Then both rock songs match", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 2)
			})
		})

		Convey("When filtering by artist substring", func() {
			matches, err := recommend.ByArtist(songs, p, "floyd")

			Convey("Then the matching artist is found", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].ID, ShouldEqual, 2)
			})
		})

		Convey("When searching titles", func() {
			matches, err := recommend.BySearch(songs, p, "pain")

			Convey("Then the matching title is found", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].ID, ShouldEqual, 3)
			})
		})

		Convey("When nothing matches the filter", func() {
			_, err := recommend.ByGenre(songs, p, "polka")

			Convey("Then it reports no match", func() {
				So(err, ShouldEqual, recommend.ErrNoMatch)
			})
		})

		Convey("When the blacklist empties the eligible set", func() {
			blocked := model.NewProfile()
			for _, s := range songs {
				blocked.AddBlacklist(s.ID)
			}

			_, err := recommend.ByGenre(songs, blocked, "rock")

			Convey("Then no-eligible wins over no-match", func() {
				So(err, ShouldEqual, recommend.ErrNoEligible)
			})
		})

		Convey("When a blacklisted song would match", func() {
			blocked := model.NewProfile()
			blocked.AddBlacklist(3)

			_, err := recommend.ByGenre(songs, blocked, "metal")

			Convey("Then the filter cannot reach it", func() {
				So(err, ShouldEqual, recommend.ErrNoMatch)
			})
		})
	})
}

func TestDayOrdinal(t *testing.T) {
	Convey("Given the day epoch", t, func() {
		Convey("When computing ordinals around it", func() {
			epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

			Convey("Then days count up from zero", func() {
				So(recommend.DayOrdinal(epoch), ShouldEqual, 0)
				So(recommend.DayOrdinal(epoch.Add(36*time.Hour)), ShouldEqual, 1)
				So(recommend.DayOrdinal(epoch.AddDate(0, 0, 10)), ShouldEqual, 10)
			})
		})
	})
}
