package store

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"chronicle/internal/providers"
	"chronicle/internal/store/interfaces"
	"chronicle/internal/structures"
)

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	store   *FileStore
	archive *ImageArchive
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.store.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting store: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted store to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(24*time.Hour), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.logger.Infof(providers.TypeApp, "Pruning illustration archive...")
		s.archive.Prune()
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.store.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting store to file...")
	err := s.store.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting store: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store *FileStore, archive *ImageArchive) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		store:   store,
		archive: archive,
	}
}
