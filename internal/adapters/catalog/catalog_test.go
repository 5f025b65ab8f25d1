package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	catalog "github.com/okian/melodex/internal/adapters/catalog"
	"github.com/okian/melodex/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryCatalog(t *testing.T) {
	Convey("Given an in-memory catalog", t, func() {
		ctx := context.Background()
		m := catalog.NewMemory(
			model.Song{ID: 2, Title: "Breathe", Artist: "Pink Floyd"},
			model.Song{ID: 1, Title: "Paranoid", Artist: "Black Sabbath"},
		)

		Convey("When listing", func() {
			songs, err := m.List(ctx)

			Convey("Then songs come back ordered by id", func() {
				So(err, ShouldBeNil)
				So(songs, ShouldHaveLength, 2)
				So(songs[0].ID, ShouldEqual, 1)
				So(songs[1].ID, ShouldEqual, 2)
			})
		})

		Convey("When getting by id", func() {
			song, err := m.Get(ctx, 1)

			So(err, ShouldBeNil)
			So(song.Title, ShouldEqual, "Paranoid")

			Convey("And the id is unknown", func() {
				_, err := m.Get(ctx, 99)
				So(err, ShouldEqual, catalog.ErrNotFound)
			})
		})

		Convey("When adding a song", func() {
			added, err := m.Add(ctx, model.Song{Title: "Painkiller", Artist: "Judas Priest"})

			Convey("Then the next free id is assigned", func() {
				So(err, ShouldBeNil)
				So(added.ID, ShouldEqual, 3)

				got, err := m.Get(ctx, 3)
				So(err, ShouldBeNil)
				So(got.Title, ShouldEqual, "Painkiller")
			})
		})

		Convey("When removing a song", func() {
			err := m.Remove(ctx, 2)

			So(err, ShouldBeNil)
			_, err = m.Get(ctx, 2)
			So(err, ShouldEqual, catalog.ErrNotFound)

			Convey("And removing it again", func() {
				So(m.Remove(ctx, 2), ShouldEqual, catalog.ErrNotFound)
			})
		})
	})
}

func TestFileCatalog(t *testing.T) {
	Convey("Given a JSON catalog file", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "songs.json")

		seed := `[
			{"id": 1, "title": "Paranoid", "artist": "Black Sabbath", "genre": "Rock", "year": 1970},
			{"id": 2, "title": "Breathe", "artist": "Pink Floyd", "genre": "Rock", "year": 1973}
		]`
		So(os.WriteFile(path, []byte(seed), 0o600), ShouldBeNil)

		Convey("When opening it", func() {
			f, err := catalog.NewFile(path)

			Convey("Then the songs load ordered by id", func() {
				So(err, ShouldBeNil)
				So(f.Len(), ShouldEqual, 2)

				songs, err := f.List(ctx)
				So(err, ShouldBeNil)
				So(songs[0].Title, ShouldEqual, "Paranoid")
			})
		})

		Convey("When the file does not exist", func() {
			f, err := catalog.NewFile(filepath.Join(dir, "missing.json"))

			Convey("Then the catalog starts empty", func() {
				So(err, ShouldBeNil)
				So(f.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the file is malformed", func() {
			bad := filepath.Join(dir, "bad.json")
			So(os.WriteFile(bad, []byte("{not json"), 0o600), ShouldBeNil)

			_, err := catalog.NewFile(bad)

			Convey("Then opening fails with a load error", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When adding a song", func() {
			f, err := catalog.NewFile(path)
			So(err, ShouldBeNil)

			added, err := f.Add(ctx, model.Song{Title: "Painkiller", Artist: "Judas Priest"})
			So(err, ShouldBeNil)
			So(added.ID, ShouldEqual, 3)

			Convey("Then the change persists across a reopen", func() {
				reopened, err := catalog.NewFile(path)
				So(err, ShouldBeNil)
				So(reopened.Len(), ShouldEqual, 3)

				got, err := reopened.Get(ctx, 3)
				So(err, ShouldBeNil)
				So(got.Title, ShouldEqual, "Painkiller")
			})
		})

		Convey("When removing a song", func() {
			f, err := catalog.NewFile(path)
			So(err, ShouldBeNil)

			So(f.Remove(ctx, 1), ShouldBeNil)

			Convey("Then the change persists across a reopen", func() {
				reopened, err := catalog.NewFile(path)
				So(err, ShouldBeNil)
				So(reopened.Len(), ShouldEqual, 1)

				_, err = reopened.Get(ctx, 1)
				So(err, ShouldEqual, catalog.ErrNotFound)
			})
		})

		Convey("When the file changes on disk", func() {
			f, err := catalog.NewFile(path)
			So(err, ShouldBeNil)

			next := `[{"id": 9, "title": "So What", "artist": "Miles Davis"}]`
			So(os.WriteFile(path, []byte(next), 0o600), ShouldBeNil)
			So(f.Reload(ctx), ShouldBeNil)

			Convey("Then reload swaps in the new contents", func() {
				So(f.Len(), ShouldEqual, 1)
				got, err := f.Get(ctx, 9)
				So(err, ShouldBeNil)
				So(got.Artist, ShouldEqual, "Miles Davis")
			})
		})
	})
}
