package rmv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/util"
)

var (
	ErrStationNotFound = errors.New("station not found")
	ErrEmptyQuery      = errors.New("empty station query")
)

// Station is one row of the RMV stop list. Values are kept exactly as the CSV provides them
type Station struct {
	HafasID              string `csv:"hafasId" json:"hafasId"`
	RMVID                string `csv:"rmvId" json:"rmvId"`
	DHID                 string `csv:"dhId" json:"dhId"`
	HstName              string `csv:"hstName" json:"hstName"`
	NameFahrPlan         string `csv:"nameFahrPlan" json:"nameFahrPlan"`
	XIplWert             string `csv:"xIplWert" json:"xIplWert"`
	YIplWert             string `csv:"yIplWert" json:"yIplWert"`
	XWgs84               string `csv:"xWgs84" json:"xWgs84"`
	YWgs84               string `csv:"yWgs84" json:"yWgs84"`
	LNO                  string `csv:"lno" json:"lno"`
	IstBahnhof           string `csv:"istBahnhof" json:"istBahnhof"`
	GueltigAb            string `csv:"gueltigAb" json:"gueltigAb"`
	GueltigBis           string `csv:"gueltigBis" json:"gueltigBis"`
	Verbund1IstGleichRMV string `csv:"verbund1IstGleichRmv" json:"verbund1IstGleichRmv"`
	Land                 string `csv:"land" json:"land"`
	RP                   string `csv:"rp" json:"rp"`
	LandKreis            string `csv:"landKreis" json:"landKreis"`
	GemeindeName         string `csv:"gemeindeName" json:"gemeindeName"`
	OrtsTeilName         string `csv:"ortsTeilName" json:"ortsTeilName"`
	AGSLand              string `csv:"agsLand" json:"agsLand"`
	AGSRP                string `csv:"agsRp" json:"agsRp"`
	AGSLK                string `csv:"agsLk" json:"agsLk"`
	AGSG                 string `csv:"agsG" json:"agsG"`
	AGSOT                string `csv:"agsOt" json:"agsOt"`
}

// Directory is the in-memory station list. It is never modified after it is built
type Directory struct {
	stations []*Station
}

func NewDirectory(stations []*Station) *Directory {
	return &Directory{stations: stations}
}

// LoadDirectory reads the semicolon delimited station export at path
func LoadDirectory(path string) (*Directory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stations file: %w", err)
	}
	defer file.Close()

	directory, err := ParseDirectory(file)
	if err != nil {
		return nil, err
	}

	log.Info().Str("file", path).Int("stations", directory.Len()).Msg("Loaded station directory")

	return directory, nil
}

func ParseDirectory(reader io.Reader) (*Directory, error) {
	buffered := bufio.NewReader(reader)

	// Exports from Excel start with a UTF-8 byte order mark which would break the first header
	if prefix, err := buffered.Peek(3); err == nil && bytes.Equal(prefix, []byte{0xEF, 0xBB, 0xBF}) {
		buffered.Discard(3)
	}

	csvReader := csv.NewReader(buffered)
	csvReader.Comma = ';'
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	var stations []*Station
	if err := gocsv.UnmarshalCSV(csvReader, &stations); err != nil {
		return nil, fmt.Errorf("parse stations: %w", err)
	}

	return NewDirectory(stations), nil
}

func (d *Directory) Len() int {
	return len(d.stations)
}

func (d *Directory) All() []*Station {
	return d.stations
}

func (d *Directory) FindByID(id string) (*Station, error) {
	for _, station := range d.stations {
		if station.HafasID == id {
			return station, nil
		}
	}

	return nil, ErrStationNotFound
}

// FindByNameQuery returns every station whose plan name contains all whitespace separated terms of query
func (d *Directory) FindByNameQuery(query string) ([]*Station, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}

	matches := []*Station{}
	for _, station := range d.stations {
		if util.ContainsAllFold(station.NameFahrPlan, terms) {
			matches = append(matches, station)
		}
	}

	return matches, nil
}
