package controllers

import "github.com/gin-gonic/gin"

func currentUserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	id, _ := v.(uint)
	return id
}

func currentUserName(c *gin.Context) string {
	v, _ := c.Get("name")
	name, _ := v.(string)
	return name
}
