package stats_test

import (
	"testing"

	"github.com/okian/melodex/internal/domain/model"
	stats "github.com/okian/melodex/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func chartCatalog() []model.Song {
	return []model.Song{
		{ID: 1, Title: "Paranoid", Artist: "Black Sabbath", Genre: "Rock"},
		{ID: 2, Title: "Breathe", Artist: "Pink Floyd", Genre: "Rock"},
		{ID: 3, Title: "Painkiller", Artist: "Judas Priest", Genre: "Metal"},
	}
}

func profileWithRatings(ratings map[int]int) model.Profile {
	p := model.NewProfile()
	for songID, score := range ratings {
		p.SetRating(songID, score)
	}
	return p
}

func TestCompute(t *testing.T) {
	Convey("Given ratings across several profiles", t, func() {
		songs := chartCatalog()

		Convey("When two users rate the same song", func() {
			profiles := []model.Profile{
				profileWithRatings(map[int]int{1: 8}),
				profileWithRatings(map[int]int{1: 9}),
			}

			computed := stats.Compute(songs, profiles)

			Convey("Then votes and mean aggregate", func() {
				So(computed, ShouldContainKey, 1)
				So(computed[1].Votes, ShouldEqual, 2)
				So(computed[1].Mean, ShouldEqual, 8.5)
			})
		})

		Convey("When a rating references an unknown song", func() {
			profiles := []model.Profile{
				profileWithRatings(map[int]int{42: 10}),
			}

			computed := stats.Compute(songs, profiles)

			Convey("Then it is skipped", func() {
				So(computed, ShouldBeEmpty)
			})
		})

		Convey("When no one rated anything", func() {
			computed := stats.Compute(songs, nil)

			Convey("Then the result is empty, not an error", func() {
				So(computed, ShouldBeEmpty)
			})
		})
	})
}

func TestRanked(t *testing.T) {
	Convey("Given songs with different means", t, func() {
		songs := chartCatalog()
		profiles := []model.Profile{
			profileWithRatings(map[int]int{1: 6, 2: 9, 3: 9}),
			profileWithRatings(map[int]int{1: 6, 2: 7}),
		}

		ranked := stats.Ranked(songs, profiles)

		Convey("Then rows sort by mean desc, votes desc, id asc", func() {
			So(ranked, ShouldHaveLength, 3)
			// id 3: mean 9 (1 vote); id 2: mean 8 (2 votes); id 1: mean 6
			So(ranked[0].Song.ID, ShouldEqual, 3)
			So(ranked[1].Song.ID, ShouldEqual, 2)
			So(ranked[2].Song.ID, ShouldEqual, 1)
		})

		Convey("When two songs tie on mean and votes", func() {
			tied := []model.Profile{
				profileWithRatings(map[int]int{1: 8, 2: 8}),
			}

			rankedTied := stats.Ranked(songs, tied)

			Convey("Then the lower id wins", func() {
				So(rankedTied[0].Song.ID, ShouldEqual, 1)
				So(rankedTied[1].Song.ID, ShouldEqual, 2)
			})
		})
	})
}

func TestTopRated(t *testing.T) {
	Convey("Given the default thresholds", t, func() {
		songs := chartCatalog()

		Convey("When a song has a high mean but one vote", func() {
			profiles := []model.Profile{
				profileWithRatings(map[int]int{1: 10}),
			}

			top := stats.TopRated(songs, profiles, stats.DefaultMinVotes, stats.DefaultMinMean)

			Convey("Then it is excluded", func() {
				So(top, ShouldBeEmpty)
			})
		})

		Convey("When a song has enough votes but a low mean", func() {
			profiles := []model.Profile{
				profileWithRatings(map[int]int{1: 5}),
				profileWithRatings(map[int]int{1: 6}),
			}

			top := stats.TopRated(songs, profiles, stats.DefaultMinVotes, stats.DefaultMinMean)

			Convey("Then it is excluded", func() {
				So(top, ShouldBeEmpty)
			})
		})

		Convey("When a song clears both gates", func() {
			profiles := []model.Profile{
				profileWithRatings(map[int]int{1: 7, 2: 10}),
				profileWithRatings(map[int]int{1: 7, 2: 3}),
			}

			top := stats.TopRated(songs, profiles, stats.DefaultMinVotes, stats.DefaultMinMean)

			Convey("Then only that song remains", func() {
				So(top, ShouldHaveLength, 1)
				So(top[0].Song.ID, ShouldEqual, 1)
				So(top[0].Stats.Mean, ShouldEqual, 7.0)
			})
		})
	})
}

func TestFavoritesOf(t *testing.T) {
	Convey("Given explicit favorites and high ratings", t, func() {
		songs := chartCatalog()

		Convey("When both sources contribute", func() {
			p := model.NewProfile()
			p.AddFavorite(3)
			p.SetRating(1, 9) // implicit favorite
			p.SetRating(2, 5) // below threshold

			favorites := stats.FavoritesOf(p, songs, stats.DefaultFavoriteThreshold)

			Convey("Then the union is ordered by song id", func() {
				So(favorites, ShouldHaveLength, 2)
				So(favorites[0].ID, ShouldEqual, 1)
				So(favorites[1].ID, ShouldEqual, 3)
			})
		})

		Convey("When a favorite is also blacklisted", func() {
			p := model.NewProfile()
			p.AddFavorite(1)
			p.AddBlacklist(1)

			favorites := stats.FavoritesOf(p, songs, stats.DefaultFavoriteThreshold)

			Convey("Then the blacklist does not hide it", func() {
				So(favorites, ShouldHaveLength, 1)
				So(favorites[0].ID, ShouldEqual, 1)
			})
		})

		Convey("When a song appears in both sources", func() {
			p := model.NewProfile()
			p.AddFavorite(1)
			p.SetRating(1, 10)

			favorites := stats.FavoritesOf(p, songs, stats.DefaultFavoriteThreshold)

			Convey("Then it is listed once", func() {
				So(favorites, ShouldHaveLength, 1)
			})
		})
	})
}

func TestRatingsOf(t *testing.T) {
	Convey("Given a user's ratings", t, func() {
		songs := chartCatalog()
		p := profileWithRatings(map[int]int{1: 7, 2: 9, 3: 7})

		ratings := stats.RatingsOf(p, songs)

		Convey("Then rows sort by score desc, id asc", func() {
			So(ratings, ShouldHaveLength, 3)
			So(ratings[0].Song.ID, ShouldEqual, 2)
			So(ratings[1].Song.ID, ShouldEqual, 1)
			So(ratings[2].Song.ID, ShouldEqual, 3)
		})
	})
}
