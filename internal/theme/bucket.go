package theme

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/vk/crossgridgo/internal/ctxlog"
)

// Canned Romanian word lists grouped by topic and difficulty tier. They back
// generation runs that have no LLM access and pad runs where the LLM came up
// short.
var defaultBuckets = map[string]map[string][]string{
	"mitologie": {
		"EASY": {
			"APOLON", "ARES", "ATHENA", "HERA", "IRIS", "HERMES", "ODIN",
			"THOR", "DIANA", "EROS", "AURORA", "TITAN", "ATLAS", "PAN",
			"ZEUS", "POSEIDON", "ISIS", "RA",
		},
		"MEDIUM": {
			"ANUBIS", "FREIA", "MINERVA", "CERES", "NEMESIS", "HELIOS",
			"SIRENA", "FAUN", "OSIRIS", "DEMETER", "JANUS", "BALDER", "TETHYS",
		},
		"HARD": {
			"HESTIA", "SATIR", "EOL", "MORPHEU", "ORACOL", "NEREIDA", "LIBER",
			"CHARON", "ERINIE", "HYPERION", "PROTEU",
		},
	},
	"istorie": {
		"EASY": {
			"REGAT", "ARMATA", "REGE", "PATRIA", "SENAT", "FORT", "OPERA",
			"PACT", "COLONIE", "CRONICA", "STEAG", "SCUT", "HARTA", "CRUCE",
		},
		"MEDIUM": {
			"LEGIE", "TRON", "VOIEVOD", "ARHIVA", "ARMURA", "CANON",
			"DOMNIE", "TRIBUT", "LEGAT", "TABELA", "DINASTIE", "HERALD",
			"ARMISTITIU", "CRONOGRAF",
		},
		"HARD": {
			"CRONIC", "CASTRA", "ARCA", "DICTUM", "RELICVA", "PORTIC",
			"CRONICAR", "EDICT", "SIGILIU", "PAPIRUS", "PALIMPSEST", "TRIREMA",
		},
	},
	"natura": {
		"EASY": {
			"MUNTE", "BRAD", "LUP", "CERB", "PLOAIE", "CAMP", "IARBA",
			"PAMANT", "OCEAN", "DELTA", "FRUNZA", "LAC", "NISIP", "VANT", "RAPITA",
		},
		"MEDIUM": {
			"CODRU", "IZVOR", "STANCA", "LUNCA", "PODIS", "OGOR", "APUS",
			"CASCADA", "FAG", "AURORA", "DESERT", "GROTA", "PENINSULA", "ECOSISTEM",
		},
		"HARD": {
			"RAPID", "VALURI", "ALBIA", "MOLID", "RACHIT", "SIRET",
			"TRESTIE", "PRAFUL", "ARIN", "GORUN", "ESTUAR", "ZADA", "LIMAN",
		},
	},
}

// fallbackBucket serves topics that have no bucket of their own.
var fallbackBucket = map[string][]string{
	"EASY": {
		"ROMA", "DUNARE", "SOLAR", "VIATA", "LUMEA", "PIATA", "PORT", "CETATE",
	},
	"MEDIUM": {
		"CARPA", "RITUAL", "LEGAT", "CLIPA", "CAMPIE", "RAZBOI", "ACORD",
	},
	"HARD": {
		"PATRU", "POD", "CLASA", "COLINA",
	},
}

const defaultBucketLimit = 30

// BucketProvider serves placeholder theme words from predefined buckets.
// On-tier words come first, shuffled, then the remaining tiers as backup.
type BucketProvider struct {
	buckets map[string]map[string][]string
	rng     *rand.Rand
}

// NewBucketProvider builds a provider over the given buckets, normalizing
// every word to uppercase. nil buckets select the built-in topics; a nil rng
// gets seeded from the clock.
func NewBucketProvider(buckets map[string]map[string][]string, rng *rand.Rand) *BucketProvider {
	if buckets == nil {
		buckets = defaultBuckets
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	normalized := make(map[string]map[string][]string, len(buckets))
	for topic, tiers := range buckets {
		normalized[topic] = make(map[string][]string, len(tiers))
		for tier, words := range tiers {
			clean := make([]string, 0, len(words))
			for _, w := range words {
				if w != "" {
					clean = append(clean, strings.ToUpper(w))
				}
			}
			normalized[topic][tier] = clean
		}
	}
	return &BucketProvider{buckets: normalized, rng: rng}
}

// Words returns up to req.Limit placeholder words for the requested topic,
// preferring the requested difficulty tier.
func (p *BucketProvider) Words(ctx context.Context, req Request) ([]Word, error) {
	topic := strings.ToLower(strings.TrimSpace(req.Theme))
	tier := strings.ToUpper(req.Difficulty)
	if tier == "" {
		tier = "MEDIUM"
	}
	tiers, ok := p.buckets[topic]
	if !ok {
		tiers = fallbackBucket
	}

	onTier := append([]string(nil), tiers[tier]...)
	var offTier []string
	for _, t := range sortedTiers(tiers) {
		if t != tier {
			offTier = append(offTier, tiers[t]...)
		}
	}
	p.rng.Shuffle(len(onTier), func(i, j int) { onTier[i], onTier[j] = onTier[j], onTier[i] })
	p.rng.Shuffle(len(offTier), func(i, j int) { offTier[i], offTier[j] = offTier[j], offTier[i] })
	combined := append(onTier, offTier...)

	if len(combined) == 0 {
		for _, t := range sortedTiers(fallbackBucket) {
			combined = append(combined, fallbackBucket[t]...)
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultBucketLimit
	}
	if len(combined) > limit {
		combined = combined[:limit]
	}

	label := req.Theme
	if label == "" {
		label = "tema"
	}
	words := make([]Word, 0, len(combined))
	for _, w := range combined {
		words = append(words, Word{
			Word:   w,
			Clue:   fmt.Sprintf("Rezerva %s: %s", label, strings.ToLower(w)),
			Source: "bucket",
		})
	}
	ctxlog.FromContext(ctx).Info("Bucket provider produced placeholder theme words.",
		"count", len(words),
		"tier", tier,
	)
	return words, nil
}

func sortedTiers(tiers map[string][]string) []string {
	names := make([]string, 0, len(tiers))
	for t := range tiers {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}
