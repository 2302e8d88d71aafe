/*
Copyright 2025 Sitefix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/sitefixhq/sitefix"
	"github.com/sitefixhq/sitefix/api/middleware"
	"github.com/sitefixhq/sitefix/config"
)

type Api struct {
	sitefix *sitefix.Sitefix
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/work-orders", a.CreateWorkOrder)
	router.GET("/work-orders", a.GetAllWorkOrders)
	router.GET("/work-orders/:id", a.GetWorkOrder)
	router.PATCH("/work-orders/:id", a.UpdateWorkOrder)
	router.POST("/work-orders/:id/close", a.CloseWorkOrder)
	router.POST("/work-orders/:id/assign", a.AssignWorkOrder)

	router.POST("/work-orders/:id/parts", a.CreatePart)
	router.PATCH("/work-orders/:id/parts/:part_id", a.UpdatePart)

	router.POST("/work-orders/:id/completions", a.SubmitCompletion)
	router.POST("/work-orders/:id/completions/:completion_id/review", a.ReviewCompletion)

	router.POST("/work-orders/:id/comments", a.CreateComment)
	return a.router
}

func NewAPI(s *sitefix.Sitefix) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}
	r.Use(middleware.RateLimitMiddleware(conf))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	r.Use(middleware.IdentityMiddleware())

	return &Api{sitefix: s, router: r}
}
