package handler

import (
	"net/http"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/otp/dto"
	otp "github.com/Justin66666/teachersLoungeBE/internal/modules/otp/service"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/Justin66666/teachersLoungeBE/pkg/validator"
	"github.com/gin-gonic/gin"
)

type OTPHandler struct {
	service otp.OTPService
}

func NewOTPHandler(service otp.OTPService) *OTPHandler {
	return &OTPHandler{service: service}
}

func (h *OTPHandler) SendTwoFactorCode(c *gin.Context) {
	var input dto.SendCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.TwoFactorResponse{Message: "Email is required"})
		return
	}

	if err := h.service.SendCode(c.Request.Context(), input.Email); err != nil {
		status := apperror.MapErrorToStatus(err)
		if status >= http.StatusInternalServerError {
			response.ResponseError(c, err)
			return
		}
		c.JSON(status, dto.TwoFactorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.TwoFactorResponse{Success: true, Message: "2FA code sent"})
}

func (h *OTPHandler) VerifyTwoFactorCode(c *gin.Context) {
	var input dto.VerifyTwoFactorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.TwoFactorResponse{Message: validator.FormatValidationError(err)})
		return
	}

	if err := h.service.VerifyCode(c.Request.Context(), input.Email, input.Code); err != nil {
		status := apperror.MapErrorToStatus(err)
		if status >= http.StatusInternalServerError {
			response.ResponseError(c, err)
			return
		}
		c.JSON(status, dto.TwoFactorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.TwoFactorResponse{
		Success: true,
		User:    &dto.VerifiedEmail{Email: entity.NormalizeEmail(input.Email)},
	})
}

func (h *OTPHandler) SendOTP(c *gin.Context) {
	var input dto.SendCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Email is required")
		return
	}

	if err := h.service.SendCode(c.Request.Context(), input.Email); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "OTP sent"})
}

func (h *OTPHandler) VerifyOTP(c *gin.Context) {
	var input dto.VerifyOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.service.VerifyCode(c.Request.Context(), input.Email, input.OTP); err != nil {
		if apperror.MapErrorToStatus(err) == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, commonDto.MessageResponse{Message: "Invalid OTP"})
			return
		}
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "OTP verified successfully"})
}
