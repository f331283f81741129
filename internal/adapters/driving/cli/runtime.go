package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	descsqlite "github.com/custodia-labs/coursa-cli/internal/adapters/driven/descriptions/sqlite"
	"github.com/custodia-labs/coursa-cli/internal/adapters/driven/oracle/anthropic"
	"github.com/custodia-labs/coursa-cli/internal/adapters/driven/oracle/openai"
	"github.com/custodia-labs/coursa-cli/internal/adapters/driven/storage/memory"
	recsqlite "github.com/custodia-labs/coursa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/coursa-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/coursa-cli/internal/core/services"
)

// runtimeOptions selects how a planning runtime is assembled. Zero values
// fall back to configuration and then to engine defaults.
type runtimeOptions struct {
	root           string
	descriptionsDB string
	threshold      float64
	parallelism    int
	ephemeral      bool
}

// runtime bundles the wired services behind one cleanup handle.
type runtime struct {
	planner driving.Planner
	records driven.RecordStore
	oracle  driven.Oracle
	corpus  driven.CorpusSource
	root    string
	close   func()
}

// newRuntime is a seam for tests.
var newRuntime = buildRuntime

// buildRuntime wires corpus, store, descriptions and oracle into a planner
// according to options and configuration.
func buildRuntime(opts runtimeOptions) (*runtime, error) {
	root := opts.root
	if root == "" && configStore != nil {
		root = configStore.GetString("corpus.root")
	}
	if root == "" {
		return nil, errors.New("no corpus root: pass one as an argument or set corpus.root")
	}

	corpus, err := filesystem.New(root)
	if err != nil {
		return nil, err
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var records driven.RecordStore
	if opts.ephemeral {
		records = memory.NewRecordStore()
	} else {
		store, err := recsqlite.NewStore(storageDir())
		if err != nil {
			return nil, fmt.Errorf("opening record store: %w", err)
		}
		cleanups = append(cleanups, func() { store.Close() }) //nolint:errcheck
		records = store.RecordStore()
	}

	descriptionsDB := opts.descriptionsDB
	if descriptionsDB == "" && configStore != nil {
		descriptionsDB = configStore.GetString("descriptions.db")
	}
	descriptions, err := descsqlite.NewIndex(descriptionsDB)
	if err != nil {
		cleanup()
		return nil, err
	}
	cleanups = append(cleanups, func() { descriptions.Close() }) //nolint:errcheck

	oracle, err := buildOracle()
	if err != nil {
		cleanup()
		return nil, err
	}
	cleanups = append(cleanups, func() { oracle.Close() }) //nolint:errcheck

	threshold := opts.threshold
	if threshold <= 0 && configStore != nil {
		threshold = configStore.GetFloat("classify.threshold")
	}
	parallelism := opts.parallelism
	if parallelism <= 0 && configStore != nil {
		parallelism = configStore.GetInt("classify.parallel")
	}

	classifier := services.NewClassifier(oracle)
	policy := services.NewEscalationPolicy(threshold)
	planner := services.NewPlanner(corpus, records, descriptions, classifier, policy, parallelism)

	return &runtime{
		planner: planner,
		records: records,
		oracle:  oracle,
		corpus:  corpus,
		root:    corpus.Root(),
		close:   cleanup,
	}, nil
}

// buildOracleForPing is a seam for tests.
var buildOracleForPing = buildOracle

// buildOracle constructs the configured model provider.
func buildOracle() (driven.Oracle, error) {
	provider := "openai"
	var model, baseURL, apiKey string
	if configStore != nil {
		if p := configStore.GetString("oracle.provider"); p != "" {
			provider = p
		}
		model = configStore.GetString("oracle.model")
		baseURL = configStore.GetString("oracle.base_url")
		apiKey = configStore.GetString("oracle.api_key")
	}

	switch strings.ToLower(provider) {
	case "openai":
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("no OpenAI API key: set oracle.api_key or OPENAI_API_KEY")
		}
		return openai.NewOracle(openai.Config{APIKey: apiKey, Model: model, BaseURL: baseURL})
	case "anthropic":
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("no Anthropic API key: set oracle.api_key or ANTHROPIC_API_KEY")
		}
		return anthropic.NewOracle(anthropic.Config{APIKey: apiKey, Model: model, BaseURL: baseURL})
	default:
		return nil, fmt.Errorf("unknown oracle provider %q (want openai or anthropic)", provider)
	}
}

// openRecordStore opens the persistent record store without the rest of the
// runtime, for read-only commands. It is a seam for tests.
var openRecordStore = func() (driven.RecordStore, func(), error) {
	store, err := recsqlite.NewStore(storageDir())
	if err != nil {
		return nil, nil, fmt.Errorf("opening record store: %w", err)
	}
	return store.RecordStore(), func() { store.Close() }, nil //nolint:errcheck
}

func storageDir() string {
	if configStore == nil {
		return ""
	}
	return configStore.GetString("storage.dir")
}
