package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleCSV mirrors the layout of a Discogs collection export.
const sampleCSV = `Catalog#,Artist,Title,Label,Format,Rating,Released,release_id,CollectionFolder,Date Added,Collection Media Condition,Collection Sleeve Condition,Collection Notes
CAD 3203,Grimes (4),Art Angels,4AD,"LP, Album",5,2015-11-06,7783425,Uncategorized,2016-01-02 10:00:00,Near Mint (NM or M-),Near Mint (NM or M-),
AKR099,Sufjan Stevens,Carrie & Lowell,Asthmatic Kitty Records,"LP, Album",,2015-03-31,6775643,Uncategorized,2016-02-01 10:00:00,Mint (M),Mint (M),
CAD 2805,Grimes (4),Visions,4AD,"LP, Album",,2012-01-31,3398436,Uncategorized,2016-02-03 10:00:00,,,
CAD 2805,Grimes (4),Visions,4AD,"LP, Album",,2012-01-31,3398436,Uncategorized,2017-05-03 10:00:00,,,second copy
CAD 0803,Pixies,Doolittle,4AD,"LP, Album",,1989-04-17,1234,Uncategorized,2018-01-01 10:00:00,,,
IL 001,Girl Talk,Feed The Animals,Illegal Art,2xLP,,2008,55555,Uncategorized,2018-01-01 10:00:00,,,
WARPLP1,Boards Of Canada,Tomorrow's Harvest,Warp Records,LP,,2013-06-05,4528010,Uncategorized,2019-01-01,,,
XX,Unknown Pressing,Mystery,,LP,,,999,Uncategorized,,,,
`

func loadSample(t *testing.T) *Store {
	t.Helper()
	store, err := Load([]byte(sampleCSV))
	require.NoError(t, err)
	return store
}

func TestLoad(t *testing.T) {
	store := loadSample(t)

	require.Equal(t, 8, store.Len())
	assert.Empty(t, store.MissingColumns())
	assert.Zero(t, store.SkippedRows())

	first := store.Records()[0]
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, "CAD 3203", first.CatalogNumber)
	assert.Equal(t, "Grimes (4)", first.Artist)
	assert.Equal(t, "Art Angels", first.Title)
	assert.Equal(t, "4AD", first.Label)
	assert.Equal(t, "LP, Album", first.Format)
	assert.Equal(t, "5", first.Rating)
	assert.Equal(t, "2015-11-06", first.Released)
	assert.Equal(t, "7783425", first.ReleaseID)
	assert.Equal(t, "Uncategorized", first.Folder)
	assert.Equal(t, "2016-01-02 10:00:00", first.DateAdded)
	assert.Equal(t, "Near Mint (NM or M-)", first.MediaCondition)
	assert.Equal(t, "Near Mint (NM or M-)", first.SleeveCondition)

	year, ok := first.Year()
	assert.True(t, ok)
	assert.Equal(t, 2015, year)

	_, ok = store.Records()[7].Year()
	assert.False(t, ok, "record without Released has no year")
}

func TestLoad_DuplicateReleaseIDsRetained(t *testing.T) {
	store := loadSample(t)

	var copies []Record
	for _, rec := range store.Records() {
		if rec.ReleaseID == "3398436" {
			copies = append(copies, rec)
		}
	}
	require.Len(t, copies, 2)
	assert.NotEqual(t, copies[0].Row, copies[1].Row)
}

func TestLoad_MissingColumns(t *testing.T) {
	data := "artist,TITLE,Extra Column\nGrimes,Visions,ignored\nPixies,Doolittle,ignored\n"

	store, err := Load([]byte(data))
	require.NoError(t, err)

	require.Equal(t, 2, store.Len())
	assert.True(t, store.HasColumn(ColumnArtist))
	assert.True(t, store.HasColumn(ColumnTitle))
	assert.False(t, store.HasColumn(ColumnLabel))
	assert.False(t, store.HasColumn(ColumnReleased))
	assert.Len(t, store.MissingColumns(), len(ExpectedColumns)-2)

	rec := store.Records()[0]
	assert.Equal(t, "Grimes", rec.Artist)
	assert.Equal(t, "", rec.Label)
	_, ok := rec.Year()
	assert.False(t, ok)
}

func TestLoad_HeaderAliases(t *testing.T) {
	data := "Cat No,Artist,Title,Label,Release Date,Media Condition\nX1, Grimes ,Visions,4AD,2012,Mint (M)\n"

	store, err := Load([]byte(data))
	require.NoError(t, err)

	rec := store.Records()[0]
	assert.Equal(t, "X1", rec.CatalogNumber)
	assert.Equal(t, "Grimes", rec.Artist, "values are trimmed")
	assert.Equal(t, "2012", rec.Released)
	assert.Equal(t, "Mint (M)", rec.MediaCondition)
}

func TestLoad_ByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Artist,Title\nGrimes,Visions\n")...)

	store, err := Load(data)
	require.NoError(t, err)
	assert.True(t, store.HasColumn(ColumnArtist))
	assert.Equal(t, "Grimes", store.Records()[0].Artist)
}

func TestLoad_HeaderOnly(t *testing.T) {
	store, err := Load([]byte("Artist,Title,Label\n"))
	require.NoError(t, err)
	assert.Zero(t, store.Len())
}

func TestLoad_RaggedRows(t *testing.T) {
	data := "Artist,Title,Label\nGrimes\nPixies,Doolittle,4AD,extra\n"

	store, err := Load([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	assert.Equal(t, "", store.Records()[0].Title)
	assert.Equal(t, "4AD", store.Records()[1].Label)
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "whitespace only", data: "   \n\n"},
		{name: "blank header cells", data: ",,\nGrimes,Visions,4AD\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Load([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, store)
			assert.True(t, errors.Is(err, ErrMalformed))

			var dataErr *DataError
			require.True(t, errors.As(err, &dataErr))
			assert.Equal(t, KindMalformed, dataErr.Kind)
		})
	}
}

func TestNewStore_CopiesRecords(t *testing.T) {
	records := []Record{{Artist: "Grimes", Released: "2012"}}
	store := NewStore(records...)

	records[0].Artist = "changed"
	assert.Equal(t, "Grimes", store.Records()[0].Artist)

	out := store.Records()
	out[0].Artist = "changed again"
	assert.Equal(t, "Grimes", store.Records()[0].Artist)

	year, ok := store.Records()[0].Year()
	assert.True(t, ok)
	assert.Equal(t, 2012, year)
}

func TestZeroStore(t *testing.T) {
	var store Store
	assert.Zero(t, store.Len())
	assert.Empty(t, store.Records())
	assert.True(t, store.HasColumn(ColumnArtist))
}
