package pipeline

import (
	"github.com/couchcryptid/quake-map/internal/domain"
)

// transform runs the batch driver and logs every feature it had to skip.
// Returns the markers in input order and the number of dropped features.
func (p *Pipeline) transform(features []domain.Feature) ([]domain.Marker, int) {
	markers, dropped := domain.BuildMarkers(features)
	for _, d := range dropped {
		p.logger.Warn("transform failed, skipping feature",
			"error", d.Err,
			"feature_id", d.FeatureID,
			"index", d.Index,
		)
	}
	p.metrics.FeaturesDropped.Add(float64(len(dropped)))
	return markers, len(dropped)
}
