// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-weave-sync/internal/config"
	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/service"
)

type Handler struct {
	services *service.Services

	// nodeAddress is returned verbatim by the node discovery route.
	nodeAddress string

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:    services,
		nodeAddress: cfg.Sync.NodeAddress,
		logger:      logger,
	}
}
