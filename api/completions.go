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
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/sitefixhq/sitefix/api/model"
	"github.com/sitefixhq/sitefix/api/middleware"
)

func (a Api) SubmitCompletion(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.SubmitCompletion
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := req.ValidateSubmitCompletion()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.SubmitCompletion(c.Request.Context(), actor, id, req.MinutesWorked, req.CompletionNotes, req.PhotoURLs)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) ReviewCompletion(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}
	completionID, passed := c.Params.Get("completion_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completion_id is required. pass completion_id in the route /:completion_id"})
		return
	}

	var req model2.ReviewCompletion
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := req.ValidateReviewCompletion()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.ReviewCompletion(c.Request.Context(), actor, id, completionID, req.Decision, req.ReviewNotes)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
