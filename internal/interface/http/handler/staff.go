package handler

import (
	"github.com/gin-gonic/gin"

	appstaff "github.com/xiebiao/invoicing/internal/application/staff"
	"github.com/xiebiao/invoicing/internal/interface/http/dto"
	"github.com/xiebiao/invoicing/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
	"github.com/xiebiao/invoicing/pkg/response"
)

// StaffHandler 店员HTTP处理器
type StaffHandler struct {
	registerUseCase *appstaff.RegisterUseCase
	loginUseCase    *appstaff.LoginUseCase
	logoutUseCase   *appstaff.LogoutUseCase
}

// NewStaffHandler 创建店员处理器
func NewStaffHandler(
	registerUseCase *appstaff.RegisterUseCase,
	loginUseCase *appstaff.LoginUseCase,
	logoutUseCase *appstaff.LogoutUseCase,
) *StaffHandler {
	return &StaffHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
	}
}

// Register 店员注册
// @Summary      店员注册
// @Tags         店员
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=appstaff.StaffInfo} "注册成功"
// @Router       /api/v1/staff/register [post]
func (h *StaffHandler) Register(c *gin.Context) {
	// 1. 绑定并验证参数(格式、长度)
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例(密码强度、邮箱唯一性)
	result, err := h.registerUseCase.Execute(c.Request.Context(), appstaff.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Login 店员登录
// @Summary      店员登录
// @Description  验证邮箱密码,返回JWT Token
// @Tags         店员
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appstaff.LoginResponse} "登录成功"
// @Router       /api/v1/staff/login [post]
func (h *StaffHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appstaff.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 店员登出
// @Summary      店员登出
// @Description  删除会话,Access Token加入黑名单
// @Tags         店员
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/staff/logout [post]
func (h *StaffHandler) Logout(c *gin.Context) {
	err := h.logoutUseCase.Execute(c.Request.Context(), middleware.MustGetStaffID(c), middleware.GetAccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "已退出登录", nil)
}
