package storage

import (
	"encoding/json"
	"errors"

	"xcskit/internal/report"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(run report.Run) ([]byte, error) {
	return json.Marshal(run)
}

func DecodeRun(data []byte) (report.Run, error) {
	var run report.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return report.Run{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return report.Run{}, err
	}
	return run, nil
}

func EncodeRewardHistory(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeRewardHistory(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func checkVersion(v report.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
