package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/subtrackr/subtrackr/internal/app/api/server"
	"github.com/subtrackr/subtrackr/internal/app/service/assist"
	"github.com/subtrackr/subtrackr/internal/app/service/notify"
	"github.com/subtrackr/subtrackr/internal/app/service/settings"
	"github.com/subtrackr/subtrackr/internal/app/service/subscription"
	"github.com/subtrackr/subtrackr/internal/platform/ai"
	"github.com/subtrackr/subtrackr/internal/platform/db"
	"github.com/subtrackr/subtrackr/internal/platform/mail"
	"github.com/subtrackr/subtrackr/pkg/config"
	"github.com/subtrackr/subtrackr/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	mail.Module,
	ai.Module,
	server.Module,
	subscription.Module,
	settings.Module,
	notify.Module,
	assist.Module,
)
