package regions

import (
	"context"
	"fmt"
	"sync"

	"github.com/0x0FACED/busregions/pkg/config"
	"github.com/0x0FACED/busregions/pkg/logger"
	"github.com/0x0FACED/busregions/pkg/partition"
	"github.com/ctessum/geom"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// PartitionFunc has the signature of partition.Partition.
type PartitionFunc func(points []geom.Point, boundary geom.Polygonal, opts ...partition.Option) ([]geom.Polygonal, error)

type Builder struct {
	cfg       config.Regions
	log       *logger.ZapLogger
	partition PartitionFunc
}

type Option func(*Builder)

// WithPartition подменяет разбиение (в тестах - чтобы уронить проход).
func WithPartition(f PartitionFunc) Option {
	return func(b *Builder) {
		if f != nil {
			b.partition = f
		}
	}
}

// NewBuilder takes the stage configuration by value. Zero workers or frame
// factor fall back to the defaults, an empty on_error means abort.
func NewBuilder(cfg config.Regions, log *logger.ZapLogger, opts ...Option) *Builder {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.FrameFactor <= 0 {
		cfg.FrameFactor = partition.DefaultFrameFactor
	}
	if cfg.OnError != config.OnErrorSkip {
		cfg.OnError = config.OnErrorAbort
	}
	b := &Builder{cfg: cfg, log: log, partition: partition.Partition}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type outcome struct {
	rows []Region
	err  error
}

// Build plans one partition pass per country (or state) and boundary kind,
// runs them on the worker pool and merges the rows in pass order.
func (b *Builder) Build(ctx context.Context, in Input) (*Result, error) {
	buses := append([]Bus(nil), in.Buses...)

	var (
		passes []pass
		err    error
	)
	if b.cfg.UseStateShapes {
		b.log.Info("[r] Строим регионы по штатам", zap.Strings("states", b.cfg.States))
		passes, err = b.planStates(in, buses)
	} else {
		b.log.Info("[r] Строим регионы по странам", zap.Strings("countries", b.cfg.Countries))
		passes, err = b.planCountries(in, buses)
	}
	if err != nil {
		return nil, err
	}

	outcomes, err := b.run(ctx, buses, passes)
	if err != nil {
		return nil, err
	}

	res := &Result{Buses: buses}
	var errs error
	for i, p := range passes {
		o := outcomes[i]
		if o.err != nil {
			if b.cfg.OnError == config.OnErrorAbort {
				return nil, o.err
			}
			b.log.Warn("[r] Проход пропущен", zap.String("pass", p.label), zap.Error(o.err))
			res.Skipped = append(res.Skipped, p.label)
			errs = multierr.Append(errs, o.err)
			continue
		}
		if p.kind == Offshore {
			res.Offshore = append(res.Offshore, o.rows...)
		} else {
			res.Onshore = append(res.Onshore, o.rows...)
		}
	}
	if len(passes) > 0 && len(res.Skipped) == len(passes) {
		return nil, errs
	}

	b.log.Info("[r] Регионы построены",
		zap.Int("passes", len(passes)),
		zap.Int("onshore", len(res.Onshore)),
		zap.Int("offshore", len(res.Offshore)),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

// run раздаёт проходы воркерам по порядку. При abort первая ошибка
// останавливает раздачу, уже начатые проходы дорабатывают.
func (b *Builder) run(ctx context.Context, buses []Bus, passes []pass) ([]outcome, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]outcome, len(passes))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(b.cfg.Workers, len(passes)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = b.runPass(buses, passes[i])
				if outcomes[i].err != nil && b.cfg.OnError == config.OnErrorAbort {
					cancel()
				}
			}
		}()
	}

dispatch:
	for i := range passes {
		select {
		case <-runCtx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("regions: %w", err)
	}
	return outcomes, nil
}

func (b *Builder) runPass(buses []Bus, p pass) outcome {
	log := b.log.With(zap.String("pass", p.label))
	if len(p.buses) == 0 {
		log.Debug("[r] Нет шин, разбиение не нужно")
		return outcome{}
	}

	points := make([]geom.Point, len(p.buses))
	for j, i := range p.buses {
		points[j] = buses[i].Point()
	}
	polys, err := b.partition(points, p.shape,
		partition.WithLogger(log),
		partition.WithFrameFactor(b.cfg.FrameFactor))
	if err != nil {
		return outcome{err: fmt.Errorf("regions: pass %s: %w", p.label, err)}
	}
	if len(polys) != len(points) {
		return outcome{err: fmt.Errorf("regions: pass %s: %d regions for %d buses", p.label, len(polys), len(points))}
	}

	rows := make([]Region, 0, len(polys))
	for j, i := range p.buses {
		g := polys[j]
		if g == nil {
			g = geom.Polygon{}
		}
		// мелкие морские обрезки - шум
		if p.kind == Offshore && !(g.Area() > b.cfg.OffshoreMinArea) {
			continue
		}
		bus := buses[i]
		rows = append(rows, Region{Name: bus.Name, X: bus.X, Y: bus.Y, Geometry: g, Country: p.country})
	}

	log.Info("[r] Проход готов",
		zap.Int("buses", len(points)),
		zap.Int("regions", len(rows)))
	return outcome{rows: rows}
}
