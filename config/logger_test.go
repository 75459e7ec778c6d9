package config

import "testing"

func TestGetLoggerBuildsOnFirstUse(t *testing.T) {
	logger = nil

	first := GetLogger()
	if first == nil {
		t.Fatal("GetLogger returned nil before InitializeLogger")
	}
	if GetLogger() != first {
		t.Error("GetLogger must keep returning the same logger")
	}
}
