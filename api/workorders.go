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
	"github.com/sitefixhq/sitefix/internal/apierror"
)

func serviceError(c *gin.Context, err error) {
	if apiErr, ok := err.(apierror.APIError); ok {
		body := gin.H{"error": apiErr.Message, "code": apiErr.Code}
		if apiErr.Details != nil {
			body["details"] = apiErr.Details
		}
		c.JSON(apierror.MapErrorToHTTPStatus(err), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (a Api) CreateWorkOrder(c *gin.Context) {
	var newWorkOrder model2.CreateWorkOrder
	if err := c.ShouldBindJSON(&newWorkOrder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newWorkOrder.ValidateCreateWorkOrder()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.CreateWorkOrder(c.Request.Context(), actor, newWorkOrder.ToWorkOrder())
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetWorkOrder(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.GetWorkOrderDetail(c.Request.Context(), actor, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllWorkOrders(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.ListWorkOrders(c.Request.Context(), actor, c.Query("status"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) UpdateWorkOrder(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var patch model2.UpdateWorkOrder
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := patch.ValidateUpdateWorkOrder()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.UpdateWorkOrder(c.Request.Context(), actor, id, patch.ToPatch())
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) CloseWorkOrder(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.CloseWorkOrder(c.Request.Context(), actor, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) AssignWorkOrder(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.AssignWorkOrder
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := req.ValidateAssignWorkOrder()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.AssignWorkOrder(c.Request.Context(), actor, id, req.AssignedToUserID, req.Force)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) CreatePart(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var newPart model2.CreatePart
	if err := c.ShouldBindJSON(&newPart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newPart.ValidateCreatePart()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.AddPart(c.Request.Context(), actor, id, newPart.ToPart())
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) UpdatePart(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}
	partID, passed := c.Params.Get("part_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "part_id is required. pass part_id in the route /:part_id"})
		return
	}

	var patch model2.UpdatePart
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := patch.ValidateUpdatePart()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.UpdatePart(c.Request.Context(), actor, id, partID, patch.ToPatch())
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) CreateComment(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var newComment model2.CreateComment
	if err := c.ShouldBindJSON(&newComment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newComment.ValidateCreateComment()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	actor := middleware.ActorFromContext(c)
	resp, err := a.sitefix.AddComment(c.Request.Context(), actor, id, newComment.Message)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
