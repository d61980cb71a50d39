package forecast

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/feature"
	"github.com/Ujjwal-270/Stock-Prediction/forecast/options"
	"github.com/Ujjwal-270/Stock-Prediction/stats"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUninitializedForecast    = errors.New("uninitialized forecast")
	ErrInsufficientTrainingData = errors.New("insufficient training data")
	ErrNoModelCoefficients      = errors.New("no model coefficients from fit")
	ErrUntrainedForecast        = errors.New("forecast has not been trained yet")
	ErrNonFiniteFit             = errors.New("fit produced non-finite values")
)

// MinTrainingPoints is the fewest observations a forecast can be trained on
const MinTrainingPoints = 2

// Forecast represents a single additive forecast model of a daily time series. The series is
// decomposed into a piecewise linear trend and Fourier seasonal components which are solved
// jointly as a penalized, optionally robust, least squares problem.
type Forecast struct {
	opt    *options.Options
	scores *Scores // score calculations after training

	// model coefficients
	fLabels *feature.Labels
	coef    []float64

	trainStartTime time.Time
	trainEndTime   time.Time
	numObs         int
	residual       []float64
	noiseScale     float64
	trained        bool
}

// New creates a new forecast instance with the given options. If none are provided, a default
// is used
func New(opt *options.Options) (*Forecast, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Forecast{opt: opt}, nil
}

// NewFromModel creates a new forecast instance given a forecast Model to initialize. This
// instance can be used for inference immediately and does not need to be trained again.
func NewFromModel(model Model) (*Forecast, error) {
	labels, err := model.Weights.FeatureLabels()
	if err != nil {
		return nil, err
	}
	opt, err := model.Options.Validate()
	if err != nil {
		return nil, err
	}

	f := &Forecast{
		opt:            opt,
		fLabels:        feature.NewLabels(labels),
		trainStartTime: model.TrainStartTime,
		trainEndTime:   model.TrainEndTime,
		numObs:         model.NumObservations,
		coef:           model.Weights.Coefficients(),
		noiseScale:     model.NoiseScale,
		scores:         model.Scores,
		trained:        true,
	}
	return f, nil
}

// Fit trains the model on the dataset. The dataset is expected to be validated so every value
// is finite and the dates are strictly increasing calendar dates.
func (f *Forecast) Fit(td *timedataset.TimeDataset) error {
	if f == nil {
		return ErrUninitializedForecast
	}
	if td.Len() < MinTrainingPoints {
		return fmt.Errorf("got %d points, need at least %d, %w", td.Len(), MinTrainingPoints, ErrInsufficientTrainingData)
	}

	f.trained = false
	f.trainStartTime = td.StartTime()
	f.trainEndTime = td.EndTime()
	f.numObs = td.Len()

	f.opt.ChangepointOptions.GenerateAutoChangepoints(td.T)

	x, err := f.opt.GenerateFeatures(td.T, f.trainStartTime, f.trainEndTime)
	if err != nil {
		return err
	}
	f.fLabels = x.Labels()

	spanDays := float64(td.SpanDays())
	penalties := f.opt.Penalties(f.fLabels, f.numObs, spanDays)
	model, err := f.opt.NewModel(penalties)
	if err != nil {
		return err
	}

	y := mat.NewDense(f.numObs, 1, td.Y)
	if err := model.Fit(x.Matrix(), y); err != nil {
		return err
	}
	f.coef = model.Coef()
	if !allFinite(f.coef) {
		return fmt.Errorf("coefficients, %w", ErrNonFiniteFit)
	}
	f.trained = true

	predicted, _, err := f.Predict(td.T)
	if err != nil {
		return err
	}
	if !allFinite(predicted) {
		f.trained = false
		return fmt.Errorf("fitted values, %w", ErrNonFiniteFit)
	}

	scores, err := NewScores(predicted, td.Y)
	if err != nil {
		return err
	}
	f.scores = scores

	residual := make([]float64, f.numObs)
	floats.SubTo(residual, td.Y, predicted)
	f.residual = residual
	f.noiseScale = stats.SampleStd(residual)

	slog.Debug("fit forecast",
		"observations", f.numObs,
		"features", f.fLabels.Len(),
		"noise_scale", f.noiseScale,
		"mse", f.scores.MSE,
	)
	return nil
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Predict takes a slice of dates in any order and produces the predicted value for those
// dates given a pre-trained model along with the decomposition into components.
func (f *Forecast) Predict(t []time.Time) ([]float64, Components, error) {
	if f == nil {
		return nil, Components{}, ErrUninitializedForecast
	}
	if !f.trained {
		return nil, Components{}, ErrUntrainedForecast
	}

	x, err := f.opt.GenerateFeatures(t, f.trainStartTime, f.trainEndTime)
	if err != nil {
		return nil, Components{}, err
	}

	trendFeat := x.FilterByType(feature.FeatureTypeGrowth)
	if err := trendFeat.Update(x.FilterByType(feature.FeatureTypeChangepoint)); err != nil {
		return nil, Components{}, err
	}

	comp := Components{
		Trend:       f.runInference(trendFeat, len(t)),
		Seasonality: make(map[string][]float64),
	}
	for _, seasCfg := range f.opt.SeasonalityOptions.SeasonalityConfigs {
		seasFeat := feature.NewSet()
		for _, label := range x.FilterByType(feature.FeatureTypeSeasonality).Labels().Labels() {
			if name, _ := label.Get("name"); name != seasCfg.Name {
				continue
			}
			data, _ := x.Get(label)
			if err := seasFeat.Set(label, data); err != nil {
				return nil, Components{}, err
			}
		}
		comp.Seasonality[seasCfg.Name] = f.runInference(seasFeat, len(t))
	}

	res := f.runInference(x, len(t))
	return res, comp, nil
}

// runInference sums each feature scaled by its coefficient. Features the model was not
// trained on contribute nothing.
func (f *Forecast) runInference(x *feature.Set, m int) []float64 {
	res := make([]float64, m)
	if f == nil || x.Len() == 0 {
		return res
	}

	for _, label := range x.Labels().Labels() {
		wIdx, exists := f.fLabels.Index(label)
		if !exists {
			continue
		}
		data, _ := x.Get(label)
		floats.AddScaled(res, f.coef[wIdx], data)
	}
	return res
}

// FeatureLabels returns the slice of feature labels in the order of the coefficients
func (f *Forecast) FeatureLabels() []feature.Feature {
	if f == nil || f.fLabels == nil {
		return nil
	}
	return f.fLabels.Labels()
}

// Coefficients returns a forecast model map of coefficients keyed by the string
// representation of each feature label
func (f *Forecast) Coefficients() (map[string]float64, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}

	labels := f.FeatureLabels()
	if len(labels) == 0 || len(f.coef) == 0 {
		return nil, ErrNoModelCoefficients
	}
	coef := make(map[string]float64)
	for i := 0; i < len(f.coef); i++ {
		coef[labels[i].String()] = f.coef[i]
	}
	return coef, nil
}

// Model returns the serializeable format of the forecast model composing of the
// forecast options, coefficients with their feature labels, noise scale and the
// model fit scores
func (f *Forecast) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitializedForecast
	}
	if !f.trained {
		return Model{}, ErrUntrainedForecast
	}

	fws := make([]FeatureWeight, 0, len(f.coef))
	labels := f.fLabels.Labels()
	for i, c := range f.coef {
		fws = append(fws, NewFeatureWeight(labels[i], c))
	}
	m := Model{
		TrainStartTime:  f.trainStartTime,
		TrainEndTime:    f.trainEndTime,
		NumObservations: f.numObs,
		NoiseScale:      f.noiseScale,
		Options:         f.opt,
		Weights:         Weights{Coef: fws},
		Scores:          f.scores,
	}
	return m, nil
}

// ModelEq returns a string representation of the model linear equation in the format of
// y ~ m1x1 + m2x2 + ...
func (f *Forecast) ModelEq() (string, error) {
	if f == nil {
		return "", ErrUninitializedForecast
	}

	coef, err := f.Coefficients()
	if err != nil {
		return "", err
	}

	eq := "y ~"
	sep := " "
	for _, label := range f.fLabels.Labels() {
		w := coef[label.String()]
		if w == 0 {
			continue
		}
		eq += fmt.Sprintf("%s%.2f*%s", sep, w, label)
		sep = "+"
	}
	return eq, nil
}

// Scores returns the fit scores for evaluating how well the resulting model
// fit the training data
func (f *Forecast) Scores() Scores {
	if f == nil || f.scores == nil {
		return Scores{}
	}
	return *f.scores
}

// Residuals returns a slice of values representing the difference between the
// training data and the fit data
func (f *Forecast) Residuals() []float64 {
	if f == nil {
		return nil
	}
	res := make([]float64, len(f.residual))
	copy(res, f.residual)
	return res
}

// NoiseScale is the sample standard deviation of the training residuals
func (f *Forecast) NoiseScale() float64 {
	if f == nil {
		return 0
	}
	return f.noiseScale
}

// TrainStartTime returns the first training date
func (f *Forecast) TrainStartTime() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.trainStartTime
}

// TrainEndTime returns the last training date
func (f *Forecast) TrainEndTime() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.trainEndTime
}

// Options returns a copy of the options the model was trained with, including any automatically
// placed changepoints
func (f *Forecast) Options() *options.Options {
	if f == nil {
		return nil
	}
	opt, _ := f.opt.Validate()
	return opt
}
