package backup

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// Scheduler ejecuta respaldos periódicos hasta que se cancela el contexto.
// Corre fuera de las transacciones del libro: solo lee.
type Scheduler struct {
	svc      *Service
	interval time.Duration
	log      *logger.Logger
}

// NewScheduler construye el planificador. interval debe ser > 0.
func NewScheduler(svc *Service, interval time.Duration, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{svc: svc, interval: interval, log: log}
}

// Run bloquea hasta que ctx se cancela. Los fallos se registran y el ciclo continúa.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("respaldo automático activo")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("respaldo automático detenido")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce crea un respaldo y depura los antiguos.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if _, err := s.svc.Create(ctx); err != nil {
		s.log.Error().Err(err).Msg("respaldo automático falló")
		return
	}
	if _, err := s.svc.CleanOld(); err != nil {
		s.log.Error().Err(err).Msg("no se pudieron depurar respaldos antiguos")
	}
}
