package manifest

import (
	"github.com/harmonize-build/harmonize/schedule"
	"github.com/harmonize-build/harmonize/schema"
	"github.com/harmonize-build/harmonize/typesig"
)

// BuildManifest derives a ModManifest from a filled schema.ConstSchema, per
// spec §4.2. WasmHash is left at its zero value; the pipeline driver fills
// it in after the wasm post-processor runs (§4.4, §4.6 step 7).
func BuildManifest(s *schema.ConstSchema) ModManifest {
	types := typesig.NewRegistry()
	for _, t := range s.Types() {
		types.Register(t)
	}

	// Dedupe resources by type identity; the last declaration for a given
	// type wins, but the Registry above already captured the refined
	// TypeSignature regardless of which resource entry "wins" here.
	resOrder := make([]typesig.StableId, 0, len(s.Resources()))
	resByType := map[typesig.StableId]ResourceDefault{}
	for _, r := range s.Resources() {
		if _, ok := resByType[r.Type]; !ok {
			resOrder = append(resOrder, r.Type)
		}
		resByType[r.Type] = ResourceDefault{Type: r.Type, Default: r.Default}
	}
	resources := make([]ResourceDefault, len(resOrder))
	for i, id := range resOrder {
		resources[i] = resByType[id]
	}

	// Group schedules by schedule-label type identity, concatenating
	// systems and constraints in declaration order. Neither is deduplicated
	// in this pass — see §9 "Constraint dedupe is deferred".
	schedOrder := make([]typesig.StableId, 0, len(s.Schedules()))
	schedByLabel := map[typesig.StableId]*schedule.Descriptor{}
	for _, entry := range s.Schedules() {
		d, ok := schedByLabel[entry.Label]
		if !ok {
			label := schedule.Label(entry.Label.Name)
			d = &schedule.Descriptor{Id: entry.Label, Label: label}
			schedByLabel[entry.Label] = d
			schedOrder = append(schedOrder, entry.Label)
		}
		d.Schedule.Systems = append(d.Schedule.Systems, entry.Schedule.Systems...)
		d.Schedule.Constraints = append(d.Schedule.Constraints, entry.Schedule.Constraints...)
	}
	schedules := make([]schedule.Descriptor, len(schedOrder))
	for i, id := range schedOrder {
		schedules[i] = *schedByLabel[id]
	}

	// The single feature is named after the mod, or "unknown" if the mod
	// declared no name.
	name := s.Name()
	if name == "" {
		name = "unknown"
	}

	return ModManifest{
		Types: types.Signatures(),
		Features: []FeatureDescriptor{
			{
				Name:      name,
				Resources: resources,
				Schedules: schedules,
			},
		},
	}
}
