package stats

import "github.com/guttosm/naftapulse/internal/domain/models"

// seriesLabelLayout is the label format of chart points.
const seriesLabelLayout = "2006-01-02"

// Series turns obs into chart points, one per observation, in order.
// A positive days keeps only observations within that many days of the latest one.
func Series(obs []models.Observation, days int) []models.SeriesPoint {
	if len(obs) == 0 {
		return []models.SeriesPoint{}
	}

	from := 0
	if days > 0 {
		cutoff := normalize(obs[len(obs)-1].Date).AddDate(0, 0, -days)
		for from < len(obs) && normalize(obs[from].Date).Before(cutoff) {
			from++
		}
	}

	out := make([]models.SeriesPoint, 0, len(obs)-from)
	for _, o := range obs[from:] {
		out = append(out, models.SeriesPoint{
			Label: o.Date.Format(seriesLabelLayout),
			Value: o.Price,
		})
	}
	return out
}
