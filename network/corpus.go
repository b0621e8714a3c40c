package network

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed corpus.yaml
var corpusYAML []byte

var errEmptyCorpus = errors.New("corpus has no phrases")

type corpusFile struct {
	Phrases []string `yaml:"phrases"`
}

func parseCorpus(data []byte) ([]string, error) {
	var file corpusFile

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing corpus: %w", err)
	}

	if len(file.Phrases) == 0 {
		return nil, errEmptyCorpus
	}

	return file.Phrases, nil
}

// defaultCorpus is the embedded phrase list. It is part of the binary, so a
// parse failure is a build defect.
var defaultCorpus = sync.OnceValue(func() []string { //nolint:gochecknoglobals
	phrases, err := parseCorpus(corpusYAML)
	if err != nil {
		panic(err)
	}

	return phrases
})
