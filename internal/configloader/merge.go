package configloader

import "github.com/yaklabco/locedit/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans only ever switch a behavior on, so only true overrides
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	mergeString(&result.Root, override.Root)
	mergeString(&result.Language, override.Language)
	mergeString(&result.DefinitionQuery, override.DefinitionQuery)
	mergeString(&result.Keyword, override.Keyword)
	mergeString(&result.Identifier, override.Identifier)
	mergeString(&result.Suffix, override.Suffix)
	mergeString(&result.Marker, override.Marker)
	mergeString(&result.Accessor, override.Accessor)
	mergeString(&result.Oracle.Binary, override.Oracle.Binary)

	if override.Oracle.Mode != "" {
		result.Oracle.Mode = override.Oracle.Mode
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.DryRun {
		result.DryRun = true
	}
	if override.ReopenPerEdit {
		result.ReopenPerEdit = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}
	if override.StrictRaceDetection {
		result.StrictRaceDetection = true
	}

	if override.DefinitionPaths != nil {
		result.DefinitionPaths = override.DefinitionPaths
	}
	if override.CallPaths != nil {
		result.CallPaths = override.CallPaths
	}
	if override.Passes != nil {
		result.Passes = override.Passes
	}

	return result
}

func mergeString(dst *string, override string) {
	if override != "" {
		*dst = override
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
