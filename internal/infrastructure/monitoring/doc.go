/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the backend
service, tracking HTTP requests, window manager and file system operations,
preference store writes, desktop sessions and WebSocket connections.

Each collector owns a private registry, so several can coexist in one
process (tests build one per server).

# Usage

	metrics := monitoring.NewMetrics()
	defer metrics.Close()

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.RecordWindowOp("focus")
	metrics.RecordFSOp("write")

	timer := monitoring.NewTimer(metrics, "finder_fs")
	err := store.Set(ctx, "finder_fs", blob)
	timer.Stop(err)
*/
package monitoring
