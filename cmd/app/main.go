package main

import (
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/0x0FACED/busregions/pkg/logger"
	"github.com/0x0FACED/busregions/pkg/partition"
	"github.com/0x0FACED/busregions/static"
	"github.com/ctessum/geom"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type Station struct {
	X, Y float64
}

// Генерируем случайные точки для станций
func generateRandStations(n int, width, height int) []Station {
	stations := make([]Station, n)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < n; i++ {
		stations[i] = Station{
			X: float64(r.Intn(width)),
			Y: float64(r.Intn(height)),
		}
	}
	return stations
}

func generateFixStations(n int, width, height int) []Station {
	stations := make([]Station, 0, n)

	rows := int(math.Sqrt(float64(n)))
	cols := (n + rows - 1) / rows

	xStep := float64(width) / float64(cols)
	yStep := float64(height) / float64(rows)

	for i := 0; i < rows && len(stations) < n; i++ {
		for j := 0; j < cols && len(stations) < n; j++ {
			stations = append(stations, Station{
				X: xStep/2 + float64(j)*xStep,
				Y: yStep/2 + float64(i)*yStep,
			})
		}
	}

	return stations
}

// boundary - прямоугольник W x H, с notch - без правой верхней четверти (буква L)
func boundary(width, height int, notch bool) geom.Polygon {
	w, h := float64(width), float64(height)
	if !notch {
		return geom.Polygon{{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}}
	}
	return geom.Polygon{{
		{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h / 2},
		{X: w / 2, Y: h / 2}, {X: w / 2, Y: h}, {X: 0, Y: h},
	}}
}

// stationsInside отбрасывает станции, попавшие в вырез
func stationsInside(stations []Station, b geom.Polygonal) []Station {
	out := stations[:0]
	for _, s := range stations {
		if (geom.Point{X: s.X, Y: s.Y}).Within(b) != geom.Outside {
			out = append(out, s)
		}
	}
	return out
}

func prepareScatter(scatter *charts.Scatter) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "580px",
			Width:  "1020px",
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                "Регионы шин (Вороной + граница)",
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Ширина",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Высота",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

// ringLine - замкнутый контур кольца одной линией
func ringLine(ring []geom.Point) []opts.LineData {
	data := make([]opts.LineData, 0, len(ring)+1)
	for _, p := range ring {
		data = append(data, opts.LineData{Value: []float64{p.X, p.Y}})
	}
	if len(ring) > 0 {
		data = append(data, opts.LineData{Value: []float64{ring[0].X, ring[0].Y}})
	}
	return data
}

// Регионы в Echarts: станции точками, контуры регионов линиями
func regionsToEcharts(stations []Station, regions []geom.Polygonal) *charts.Scatter {
	scatter := charts.NewScatter()

	points := make([]opts.ScatterData, 0, len(stations))
	for _, station := range stations {
		points = append(points, opts.ScatterData{
			Value: []float64{station.X, station.Y},
		})
	}

	// Дизайним скаттер
	prepareScatter(scatter)

	scatter.AddSeries("Станции", points).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)

	for _, region := range regions {
		for _, poly := range region.Polygons() {
			for _, ring := range poly {
				line := charts.NewLine()
				line.AddSeries("Границы", ringLine(ring)).SetSeriesOptions(
					charts.WithLineStyleOpts(opts.LineStyle{
						Width: 2,
					}),
				)
				scatter.Overlap(line)
			}
		}
	}

	return scatter
}

type form struct {
	width, height, stations int
	random, notch           bool
}

func parseForm(r *http.Request) form {
	f := form{width: 1000, height: 1000, stations: 12}
	if r.Method != http.MethodPost {
		return f
	}
	r.ParseForm()
	atoi := func(key string, def, lo, hi int) int {
		v, err := strconv.Atoi(r.FormValue(key))
		if err != nil || v < lo || v > hi {
			return def
		}
		return v
	}
	f.width = atoi("width", f.width, 100, 5000)
	f.height = atoi("height", f.height, 100, 5000)
	f.stations = atoi("stations", f.stations, 1, 200)
	f.random = r.FormValue("random") == "true"
	f.notch = r.FormValue("notch") == "true"
	return f
}

// http обработчик страницы с регионами и формой для ввода данных
func regionsHandler(w http.ResponseWriter, r *http.Request) {
	f := parseForm(r)

	var stations []Station
	if f.random {
		stations = generateRandStations(f.stations, f.width, f.height)
	} else {
		stations = generateFixStations(f.stations, f.width, f.height)
	}

	outline := boundary(f.width, f.height, f.notch)
	stations = stationsInside(stations, outline)

	logger := logger.New()
	defer logger.ClearLogs()

	var regions []geom.Polygonal
	if len(stations) > 0 {
		points := make([]geom.Point, 0, len(stations))
		for _, station := range stations {
			points = append(points, geom.Point{X: station.X, Y: station.Y})
		}
		var err error
		regions, err = partition.Partition(points, outline, partition.WithLogger(logger))
		if err != nil {
			logger.Error("[a] Ошибка разбиения", zap.Error(err))
		}
	}
	logger.Info("[a] Регионы построены",
		zap.Int("stations", len(stations)),
		zap.Int("regions", len(regions)),
		zap.Bool("notch", f.notch))

	scatter := regionsToEcharts(stations, regions)

	fmt.Fprintln(w, static.Part1)

	err := scatter.Render(w)
	if err != nil {
		fmt.Println("Ошибка рендеринга диаграммы:", err)
	}

	fmt.Fprintln(w, static.Part2)

	// Вставляем логи в HTML
	logger.UpdateLogs()
	for _, log := range logger.Logs {
		fmt.Fprintln(w, log)
	}

	fmt.Fprintln(w, static.Part3)
}

func main() {
	http.HandleFunc("/", regionsHandler)
	fmt.Println("Сервер запущен на http://localhost:8080")
	err := http.ListenAndServe(":8080", nil)
	if err != nil {
		fmt.Println("Err ListenAndServe", err)
	}
}
