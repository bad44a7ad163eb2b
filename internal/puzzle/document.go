// Package puzzle turns a finished grid into its frontend-ready JSON
// document, renders grids as text for logs and the CLI, and persists
// documents in a file-backed store.
package puzzle

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/crossgridgo/internal/dictionary"
	"github.com/vk/crossgridgo/internal/grid"
	"github.com/vk/crossgridgo/internal/theme"
)

// Document statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Cell type values on the wire.
const (
	cellEmpty   = "EMPTY_PLAYABLE"
	cellLetter  = "LETTER"
	cellClueBox = "CLUE_BOX"
	cellBlocker = "BLOCKER_ZONE"
)

// Document is the persisted record of one generation outcome. Failed
// attempts store the same shape with the grid-derived sections reduced
// to whatever the attempt produced.
type Document struct {
	ID            string       `json:"id"`
	CreatedAt     string       `json:"created_at"`
	Status        string       `json:"status"`
	Error         string       `json:"error,omitempty"`
	Config        Profile      `json:"config"`
	ThemeCacheRef string       `json:"theme_cache_ref,omitempty"`
	Title         string       `json:"crossword_title,omitempty"`
	ThemeContent  string       `json:"theme_content,omitempty"`
	ThemeWords    []ThemeWord  `json:"theme_words"`
	Slots         []Slot       `json:"slots"`
	Clues         []ClueRecord `json:"clues"`
	Validation    []string     `json:"validation"`
	Grid          [][]Cell     `json:"grid"`
	Stats         Stats        `json:"stats"`
}

// Profile echoes the generation parameters into the document.
type Profile struct {
	Height           int     `json:"height"`
	Width            int     `json:"width"`
	Theme            string  `json:"theme_title"`
	ThemeDescription string  `json:"theme_description,omitempty"`
	Difficulty       string  `json:"difficulty"`
	Language         string  `json:"language"`
	Seed             int64   `json:"seed"`
	CompletionTarget float64 `json:"completion_target"`
	MinThemeCoverage float64 `json:"min_theme_coverage"`
	PlaceBlocker     bool    `json:"place_blocker_zone"`
}

// ThemeWord mirrors theme.Word on the wire.
type ThemeWord struct {
	Word   string `json:"word"`
	Clue   string `json:"clue"`
	Source string `json:"source"`
}

// Slot is the wire form of one registered word slot.
type Slot struct {
	ID        string `json:"id"`
	Start     [2]int `json:"start"`
	Direction string `json:"direction"`
	Length    int    `json:"length"`
	Text      string `json:"text"`
	ClueBox   [2]int `json:"clue_box"`
	IsTheme   bool   `json:"is_theme"`
}

// HostedClue is one clue record as stored inside its clue box cell.
type HostedClue struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	SolutionRefID  string `json:"solution_word_ref_id"`
	SolutionLength int    `json:"solution_length"`
	Direction      string `json:"direction"`
	StartOffsetR   int    `json:"start_offset_r"`
	StartOffsetC   int    `json:"start_offset_c"`
}

// ClueRecord is a hosted clue in the document's flat clue list, which
// additionally names the hosting box.
type ClueRecord struct {
	HostedClue
	ClueBox [2]int `json:"clue_box"`
}

// Cell is the wire form of one grid square.
type Cell struct {
	Type          string       `json:"type"`
	Letter        string       `json:"letter"`
	CluesHosted   []HostedClue `json:"clues_hosted"`
	PartOfWordIDs []string     `json:"part_of_word_ids"`
}

// Stats aggregates grid geometry, word and difficulty metrics.
type Stats struct {
	Grid       GridStats        `json:"grid"`
	Words      WordStats        `json:"words"`
	Difficulty *DifficultyStats `json:"difficulty,omitempty"`
}

// GridStats counts cells by kind.
type GridStats struct {
	Rows          int `json:"rows"`
	Cols          int `json:"cols"`
	TotalCells    int `json:"total_cells"`
	LetterCells   int `json:"letter_cells"`
	ClueBoxes     int `json:"clue_boxes"`
	BlockerCells  int `json:"blocker_cells"`
	UnfilledCells int `json:"unfilled_cells"`
}

// WordStats summarizes the placed words.
type WordStats struct {
	TotalSlots         int            `json:"total_slots"`
	Words3Plus         int            `json:"words_3plus"`
	ThemeWords         int            `json:"theme_words"`
	FillWords          int            `json:"fill_words"`
	LengthMin          int            `json:"length_min"`
	LengthMax          int            `json:"length_max"`
	LengthAvg          float64        `json:"length_avg"`
	LengthDistribution map[string]int `json:"length_distribution"`
}

// DifficultyStats holds the dictionary-backed difficulty breakdown of
// the fill words. Theme words are scored separately.
type DifficultyStats struct {
	AvgScore      float64  `json:"avg_score"`
	AvgFrequency  float64  `json:"avg_frequency"`
	EasyCount     int      `json:"easy_count"`
	EasyPct       float64  `json:"easy_pct"`
	MediumCount   int      `json:"medium_count"`
	MediumPct     float64  `json:"medium_pct"`
	HardCount     int      `json:"hard_count"`
	HardPct       float64  `json:"hard_pct"`
	DictCoverage  string   `json:"dict_coverage"`
	ThemeAvgScore *float64 `json:"theme_avg_score"`
}

// Encode renders the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode puzzle document: %w", err)
	}
	return data, nil
}

// SnapshotCells serializes every cell of the grid.
func SnapshotCells(g *grid.Grid) [][]Cell {
	out := make([][]Cell, g.Height())
	for r := range out {
		row := make([]Cell, g.Width())
		for c := range row {
			cell := g.CellAt(r, c)
			letter := ""
			if cell.Letter != 0 {
				letter = string(cell.Letter)
			}
			ids := make([]string, 0, len(cell.SlotIDs))
			ids = append(ids, cell.SlotIDs...)
			sort.Strings(ids)
			hosted := make([]HostedClue, 0, len(cell.Clues))
			for _, clue := range cell.Clues {
				hosted = append(hosted, hostedClue(clue))
			}
			row[c] = Cell{
				Type:          cellType(cell.Kind),
				Letter:        letter,
				CluesHosted:   hosted,
				PartOfWordIDs: ids,
			}
		}
		out[r] = row
	}
	return out
}

// SlotRecords serializes slots in the given order.
func SlotRecords(slots []*grid.WordSlot) []Slot {
	out := make([]Slot, len(slots))
	for i, slot := range slots {
		out[i] = Slot{
			ID:        slot.ID,
			Start:     [2]int{slot.Start.Row, slot.Start.Col},
			Direction: wireDirection(slot.Dir),
			Length:    slot.Length,
			Text:      slot.Text,
			ClueBox:   [2]int{slot.ClueBox.Row, slot.ClueBox.Col},
			IsTheme:   slot.Theme,
		}
	}
	return out
}

// ThemeWordRecords serializes theme words in the given order.
func ThemeWordRecords(words []theme.Word) []ThemeWord {
	out := make([]ThemeWord, len(words))
	for i, w := range words {
		out[i] = ThemeWord{Word: w.Word, Clue: w.Clue, Source: w.Source}
	}
	return out
}

// CollectClues flattens every hosted clue record into one list, walking
// clue boxes in row-major order.
func CollectClues(g *grid.Grid) []ClueRecord {
	out := []ClueRecord{}
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			cell := g.CellAt(r, c)
			if cell.Kind != grid.ClueBox {
				continue
			}
			for _, clue := range cell.Clues {
				out = append(out, ClueRecord{
					HostedClue: hostedClue(clue),
					ClueBox:    [2]int{r, c},
				})
			}
		}
	}
	return out
}

// ComputeStats derives the stats block. The difficulty section is
// omitted when dict is nil or no fill word could be scored.
func ComputeStats(g *grid.Grid, slots []*grid.WordSlot, dict *dictionary.Index) Stats {
	gs := GridStats{
		Rows:       g.Height(),
		Cols:       g.Width(),
		TotalCells: g.Height() * g.Width(),
	}
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			switch g.CellAt(r, c).Kind {
			case grid.Letter:
				gs.LetterCells++
			case grid.ClueBox:
				gs.ClueBoxes++
			case grid.Blocker:
				gs.BlockerCells++
			case grid.Empty:
				gs.UnfilledCells++
			}
		}
	}

	var words3plus, themeSlots int
	var fillSlots []*grid.WordSlot
	var lengths []int
	dist := map[string]int{}
	for _, slot := range slots {
		if slot.Theme {
			themeSlots++
		}
		if len(slot.Text) >= 3 {
			words3plus++
			lengths = append(lengths, len(slot.Text))
			dist[strconv.Itoa(len(slot.Text))]++
			if !slot.Theme {
				fillSlots = append(fillSlots, slot)
			}
		}
	}

	ws := WordStats{
		TotalSlots:         len(slots),
		Words3Plus:         words3plus,
		ThemeWords:         themeSlots,
		FillWords:          len(fillSlots),
		LengthDistribution: dist,
	}
	if len(lengths) > 0 {
		ws.LengthMin, ws.LengthMax = lengths[0], lengths[0]
		sum := 0
		for _, l := range lengths {
			if l < ws.LengthMin {
				ws.LengthMin = l
			}
			if l > ws.LengthMax {
				ws.LengthMax = l
			}
			sum += l
		}
		ws.LengthAvg = round1(float64(sum) / float64(len(lengths)))
	}

	stats := Stats{Grid: gs, Words: ws}
	if dict == nil || words3plus == 0 {
		return stats
	}

	var fillScores, fillFreqs, themeScores []float64
	for _, slot := range fillSlots {
		if entry, ok := dict.Get(slot.Text); ok {
			fillScores = append(fillScores, entry.DifficultyScore)
			fillFreqs = append(fillFreqs, entry.Frequency)
		}
	}
	for _, slot := range slots {
		if slot.Theme && slot.Text != "" {
			if entry, ok := dict.Get(slot.Text); ok {
				themeScores = append(themeScores, entry.DifficultyScore)
			}
		}
	}
	if len(fillScores) == 0 {
		return stats
	}

	var easy, medium, hard int
	for _, score := range fillScores {
		switch {
		case score < 0.3:
			easy++
		case score < 0.6:
			medium++
		default:
			hard++
		}
	}
	total := len(fillScores)
	ds := &DifficultyStats{
		AvgScore:     round3(mean(fillScores)),
		AvgFrequency: round3(mean(fillFreqs)),
		EasyCount:    easy,
		EasyPct:      round1(float64(easy) / float64(total) * 100),
		MediumCount:  medium,
		MediumPct:    round1(float64(medium) / float64(total) * 100),
		HardCount:    hard,
		HardPct:      round1(float64(hard) / float64(total) * 100),
		DictCoverage: fmt.Sprintf("%d/%d", total, len(fillSlots)),
	}
	if len(themeScores) > 0 {
		avg := round3(mean(themeScores))
		ds.ThemeAvgScore = &avg
	}
	stats.Difficulty = ds
	return stats
}

func hostedClue(clue grid.Clue) HostedClue {
	return HostedClue{
		ID:             clue.ID,
		Text:           clue.Text,
		SolutionRefID:  clue.SlotID,
		SolutionLength: clue.Length,
		Direction:      wireDirection(clue.Dir),
		StartOffsetR:   clue.StartOffset.Row,
		StartOffsetC:   clue.StartOffset.Col,
	}
}

func cellType(kind grid.CellKind) string {
	switch kind {
	case grid.Letter:
		return cellLetter
	case grid.ClueBox:
		return cellClueBox
	case grid.Blocker:
		return cellBlocker
	default:
		return cellEmpty
	}
}

func wireDirection(d grid.Direction) string {
	return strings.ToUpper(string(d))
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
