package main

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reseau-local/reseau/pkg/config"
)

func TestWarnSplitFeedSource(t *testing.T) {
	tests := []struct {
		source   string
		wantWarn bool
	}{
		{config.SourcePostgres, false},
		{config.SourceMongo, true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			cfg := &config.Config{}
			cfg.Feed.Source = tt.source
			cfg.Mongo.Database = "reseau"

			warnSplitFeedSource(zap.New(core), cfg)

			if got := logs.Len() == 1; got != tt.wantWarn {
				t.Errorf("warned = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}
