// Package refdata reads the static reference datasets: the career twin
// roster, the role skills database and the growth roadmap.
package refdata

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"resumetwin/internal/errors"
	"resumetwin/internal/types"
)

// FileStore reads each dataset from disk on every call, so edits to the
// files take effect without a restart.
type FileStore struct {
	careerTwinsFile string
	skillsDBFile    string
	roadmapFile     string
	logger          *errors.Logger
}

// NewFileStore creates a store over the given dataset paths.
func NewFileStore(careerTwinsFile, skillsDBFile, roadmapFile string, logger *errors.Logger) *FileStore {
	return &FileStore{
		careerTwinsFile: careerTwinsFile,
		skillsDBFile:    skillsDBFile,
		roadmapFile:     roadmapFile,
		logger:          logger,
	}
}

// CareerTwins loads the roster of career twins.
func (s *FileStore) CareerTwins(ctx context.Context) ([]types.CareerTwin, error) {
	data, err := s.read(ctx, s.careerTwinsFile)
	if err != nil {
		return nil, err
	}

	var twins []types.CareerTwin
	if err := json.Unmarshal(data, &twins); err != nil {
		return nil, invalidData(s.careerTwinsFile, err)
	}
	return twins, nil
}

// RoleSkills loads the role to expected skills map.
func (s *FileStore) RoleSkills(ctx context.Context) (types.RoleSkillMap, error) {
	data, err := s.read(ctx, s.skillsDBFile)
	if err != nil {
		return nil, err
	}

	roles := types.RoleSkillMap{}
	if err := json.Unmarshal(data, &roles); err != nil {
		return nil, invalidData(s.skillsDBFile, err)
	}
	return roles, nil
}

// Roadmap loads the growth roadmap, keeping the file order of its paths.
func (s *FileStore) Roadmap(ctx context.Context) ([]types.RoadmapEntry, error) {
	data, err := s.read(ctx, s.roadmapFile)
	if err != nil {
		return nil, err
	}

	entries, err := ParseRoadmap(data)
	if err != nil {
		return nil, invalidData(s.roadmapFile, err)
	}
	return entries, nil
}

// Check verifies that every dataset can be read and parsed.
func (s *FileStore) Check(ctx context.Context) error {
	if _, err := s.CareerTwins(ctx); err != nil {
		return err
	}
	if _, err := s.RoleSkills(ctx); err != nil {
		return err
	}
	_, err := s.Roadmap(ctx)
	return err
}

func (s *FileStore) read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		name := filepath.Base(path)
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewDataUnavailableError(errors.ErrCodeReferenceDataMissing,
				fmt.Sprintf("Failed to load %s: file not found", name), err).
				WithContext("path", path)
		}
		return nil, errors.NewDataUnavailableError(errors.ErrCodeReferenceDataMissing,
			fmt.Sprintf("Failed to load %s", name), err).
			WithContext("path", path)
	}

	s.logger.Debug("Reference data loaded", "path", path, "bytes", len(data))
	return data, nil
}

func invalidData(path string, cause error) *errors.AppError {
	return errors.NewDataUnavailableError(errors.ErrCodeReferenceDataInvalid,
		fmt.Sprintf("Failed to load %s: invalid JSON", filepath.Base(path)), cause).
		WithContext("path", path)
}
