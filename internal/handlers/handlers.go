package handlers

import (
	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
	"github.com/arcaneplugins/levelledmobs/internal/debug"
	"github.com/arcaneplugins/levelledmobs/internal/services"
)

type Handler struct {
	queueSrv *services.QueueService
	journal  *services.RestartJournal
	debug    *debug.Manager
	startup  *services.Startup
}

func New(queueSrv *services.QueueService, journal *services.RestartJournal, debugMgr *debug.Manager, startup *services.Startup) *Handler {
	return &Handler{
		queueSrv: queueSrv,
		journal:  journal,
		debug:    debugMgr,
		startup:  startup,
	}
}

var _ v1.ServerInterface = (*Handler)(nil)
