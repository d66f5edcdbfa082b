package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/config"
	"github.com/Justin66666/teachersLoungeBE/internal/middleware"
	"github.com/Justin66666/teachersLoungeBE/pkg/mailer"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
	"github.com/Justin66666/teachersLoungeBE/pkg/storage"
	"github.com/Justin66666/teachersLoungeBE/pkg/token"

	attachmentHttp "github.com/Justin66666/teachersLoungeBE/internal/modules/attachment/delivery/http"
	attachmentService "github.com/Justin66666/teachersLoungeBE/internal/modules/attachment/service"

	commentHttp "github.com/Justin66666/teachersLoungeBE/internal/modules/comment/delivery/http"
	commentRepo "github.com/Justin66666/teachersLoungeBE/internal/modules/comment/repository"
	commentService "github.com/Justin66666/teachersLoungeBE/internal/modules/comment/service"

	communityHttp "github.com/Justin66666/teachersLoungeBE/internal/modules/community/delivery/http"
	communityRepo "github.com/Justin66666/teachersLoungeBE/internal/modules/community/repository"
	communityService "github.com/Justin66666/teachersLoungeBE/internal/modules/community/service"

	conversationHttp "github.com/Justin66666/teachersLoungeBE/internal/modules/conversation/delivery/http"
	conversationRepo "github.com/Justin66666/teachersLoungeBE/internal/modules/conversation/repository"
	conversationService "github.com/Justin66666/teachersLoungeBE/internal/modules/conversation/service"

	otpHttp "github.com/Justin66666/teachersLoungeBE/internal/modules/otp/delivery/http"
	otpRepo "github.com/Justin66666/teachersLoungeBE/internal/modules/otp/repository"
	otpService "github.com/Justin66666/teachersLoungeBE/internal/modules/otp/service"

	postHttp "github.com/Justin66666/teachersLoungeBE/internal/modules/post/delivery/http"
	postRepo "github.com/Justin66666/teachersLoungeBE/internal/modules/post/repository"
	postService "github.com/Justin66666/teachersLoungeBE/internal/modules/post/service"

	relationshipHttp "github.com/Justin66666/teachersLoungeBE/internal/modules/relationship/delivery/http"
	relationshipRepo "github.com/Justin66666/teachersLoungeBE/internal/modules/relationship/repository"
	relationshipService "github.com/Justin66666/teachersLoungeBE/internal/modules/relationship/service"

	searchService "github.com/Justin66666/teachersLoungeBE/internal/modules/search/service"

	spaceHttp "github.com/Justin66666/teachersLoungeBE/internal/modules/space/delivery/http"
	spaceRepo "github.com/Justin66666/teachersLoungeBE/internal/modules/space/repository"
	spaceService "github.com/Justin66666/teachersLoungeBE/internal/modules/space/service"

	userHttp "github.com/Justin66666/teachersLoungeBE/internal/modules/user/delivery/http"
	userRepo "github.com/Justin66666/teachersLoungeBE/internal/modules/user/repository"
	userService "github.com/Justin66666/teachersLoungeBE/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the collaborators built by main. Redis and Search may be nil.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Files  storage.FileStorage
	Mailer mailer.Sender
	Search searchService.UserIndex
}

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
}

func NewServer(deps Deps) *Server {
	cfg := deps.Config
	db := deps.DB
	sanitizer := sanitize.New()
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	userRepository := userRepo.NewUserRepository(db)
	google := userService.GoogleOptions(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	linkedIn := userService.LinkedInOptions(cfg.LinkedInClientID, cfg.LinkedInClientSecret, cfg.LinkedInRedirectURL)
	authHandler := userHttp.NewAuthHandler(userService.NewAuthService(userRepository, tokens, deps.Search, google, linkedIn))
	userHandler := userHttp.NewUserHandler(userService.NewUserService(userRepository, tokens, deps.Search))

	var codes otpRepo.CodeStore
	var broker conversationService.Broker
	if deps.Redis != nil {
		codes = otpRepo.NewRedisCodeStore(deps.Redis)
		broker = conversationService.NewRedisBroker(deps.Redis)
	} else {
		codes = otpRepo.NewMemoryCodeStore()
		broker = conversationService.NewMemoryBroker()
	}
	otpHandler := otpHttp.NewOTPHandler(otpService.NewOTPService(codes, deps.Mailer, cfg.OTPTTL))

	attachmentHandler := attachmentHttp.NewAttachmentHandler(attachmentService.NewAttachmentService(deps.Files))

	postRepository := postRepo.NewPostRepository(db)
	postHandler := postHttp.NewPostHandler(postService.NewPostService(postRepository, deps.Files, sanitizer))

	commentRepository := commentRepo.NewCommentRepository(db)
	commentHandler := commentHttp.NewCommentHandler(commentService.NewCommentService(commentRepository, sanitizer))

	communityHandler := communityHttp.NewCommunityHandler(communityService.NewCommunityService(communityRepo.NewCommunityRepository(db), sanitizer))

	conversationSvc := conversationService.NewConversationService(conversationRepo.NewConversationRepository(db), broker, sanitizer)
	conversationHandler := conversationHttp.NewConversationHandler(conversationSvc, broker)

	relationshipHandler := relationshipHttp.NewRelationshipHandler(relationshipService.NewRelationshipService(relationshipRepo.NewRelationshipRepository(db)))

	spaceHandler := spaceHttp.NewSpaceHandler(spaceService.NewSpaceService(spaceRepo.NewSpaceRepository(db), sanitizer))

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(middleware.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/test"},
	}))

	authMiddleware := middleware.NewAuthMiddleware(tokens, userRepository)
	requireAuth := authMiddleware.RequireAuth()
	optionalAuth := authMiddleware.OptionalAuth()
	requireAdmin := authMiddleware.RequireAdmin()

	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Server is working!", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	router.GET("/getTest", databaseCheck(db))

	// Credential endpoints (public, rate limited)
	limited := router.Group("")
	limited.Use(middleware.RateLimit(uint(cfg.AuthRateLimit)))
	{
		limited.POST("/login", authHandler.Login)
		limited.POST("/register", authHandler.Register)

		auth := limited.Group("/api/auth")
		auth.POST("/social", authHandler.SocialLogin)
		auth.POST("/google", authHandler.GoogleAuth)
		auth.POST("/linkedin", authHandler.LinkedInAuth)

		// The 2FA router answers under both prefixes.
		for _, prefix := range []string{"/2fa", "/api/auth"} {
			twoFactor := limited.Group(prefix)
			twoFactor.POST("/send-2fa-code", otpHandler.SendTwoFactorCode)
			twoFactor.POST("/verify-2fa", otpHandler.VerifyTwoFactorCode)
			twoFactor.POST("/send-otp", otpHandler.SendOTP)
			twoFactor.POST("/verify-otp", otpHandler.VerifyOTP)
		}
	}

	// Anonymous reads, personalised when a token is present
	public := router.Group("")
	public.Use(optionalAuth)
	{
		public.GET("/getAllApprovedPosts", postHandler.GetAllApprovedPosts)
		public.GET("/getAllApprovedPostsByUser/:username", postHandler.GetAllApprovedPostsByUser)
		public.GET("/getCommunityApprovedPosts", postHandler.GetCommunityApprovedPosts)
		public.POST("/getPostLikes", postHandler.GetPostLikes)

		public.GET("/getComment", commentHandler.GetComment)
		public.GET("/getCommentByCommentID", commentHandler.GetCommentByCommentID)
		public.GET("/getCommentsByPostID", commentHandler.GetCommentsByPostID)

		public.GET("/getAllCommunities", communityHandler.GetAllCommunities)
		public.GET("/getCommunityName", communityHandler.GetCommunityName)
	}

	protected := router.Group("")
	protected.Use(requireAuth)
	{
		admin := protected.Group("")
		admin.Use(requireAdmin)
		{
			admin.POST("/createNewUser", userHandler.CreateUser)
			admin.GET("/getApprovedUsers", userHandler.GetApprovedUsers)
			admin.GET("/getPendingUsers", userHandler.GetPendingUsers)
			admin.POST("/approveUser", userHandler.ApproveUser)
			admin.POST("/promoteUser", userHandler.PromoteUser)
			admin.DELETE("/deleteUser/:email", userHandler.DeleteUser)
			admin.GET("/getPendingPosts", postHandler.GetPendingPosts)
			admin.POST("/approvePost", postHandler.ApprovePost)
		}

		// Accounts
		protected.PATCH("/updateUserInfo", userHandler.UpdateUserInfo)
		protected.POST("/changeUserColor", userHandler.ChangeUserColor)
		protected.GET("/searchUser", userHandler.SearchUser)
		protected.GET("/findUser", userHandler.FindUser)
		protected.GET("/getUserInfo", userHandler.GetUserInfo)

		// Files
		protected.POST("/fileUpload", attachmentHandler.FileUpload)

		// Posts
		protected.POST("/createNewPost", postHandler.CreatePost)
		protected.POST("/createNewCommunityPost", postHandler.CreateCommunityPost)
		protected.GET("/getUserPosts", postHandler.GetUserPosts)
		protected.DELETE("/deletePost/:postId", middleware.RequirePostOwnerOrAdmin(postRepository), postHandler.DeletePost)
		protected.POST("/likePost", postHandler.LikePost)
		protected.POST("/unlikePost", postHandler.UnlikePost)
		protected.POST("/checkLikedPost", postHandler.CheckLikedPost)

		// Comments
		protected.POST("/addComment", commentHandler.AddComment)
		protected.PUT("/updateComment", commentHandler.UpdateComment)
		protected.DELETE("/deleteComment/:commentId", middleware.RequireCommentOwnerOrAdmin(commentRepository), commentHandler.DeleteComment)

		// Communities
		protected.POST("/createNewCommunity", communityHandler.CreateNewCommunity)
		protected.POST("/joinCommunity", communityHandler.JoinCommunity)
		protected.DELETE("/leaveCommunity", communityHandler.LeaveCommunity)
		protected.GET("/getUserCommunities", communityHandler.GetUserCommunities)

		// Conversations
		protected.POST("/createConversation", conversationHandler.CreateConversation)
		protected.GET("/getConversations", conversationHandler.GetConversations)
		protected.POST("/sendMessage", conversationHandler.SendMessage)
		protected.GET("/getMessages", conversationHandler.GetMessages)
		protected.GET("/getLastMessage", conversationHandler.GetLastMessage)
		protected.GET("/getConversationDetails", conversationHandler.GetConversationDetails)
		protected.POST("/updateConversationTitle", conversationHandler.UpdateConversationTitle)
		protected.GET("/ws/conversations/:conversationId", conversationHandler.Stream)

		// Friends, mutes and blocks
		protected.GET("/checkIfFriended", relationshipHandler.CheckIfFriended)
		protected.POST("/friendUser", relationshipHandler.FriendUser)
		protected.DELETE("/unfriendUser", relationshipHandler.UnfriendUser)
		protected.GET("/getFriendsList", relationshipHandler.GetFriendsList)
		protected.GET("/getSentFriendRequests", relationshipHandler.GetSentFriendRequests)
		protected.GET("/getPendingFriendRequests", relationshipHandler.GetPendingFriendRequests)
		protected.POST("/muteUser", relationshipHandler.MuteUser)
		protected.DELETE("/unmuteUser", relationshipHandler.UnmuteUser)
		protected.GET("/getMuteList", relationshipHandler.GetMuteList)
		protected.GET("/checkIfMuted", relationshipHandler.CheckIfMuted)
		protected.POST("/blockUser", relationshipHandler.BlockUser)
		protected.DELETE("/unblockUser", relationshipHandler.UnblockUser)
		protected.GET("/checkIfBlocked", relationshipHandler.CheckIfBlocked)
		protected.GET("/getBlockList", relationshipHandler.GetBlockList)

		// Private spaces
		protected.POST("/createPrivateSpace", spaceHandler.CreatePrivateSpace)
		protected.GET("/getUserPrivateSpaces", spaceHandler.GetUserPrivateSpaces)
		protected.GET("/getPrivateSpaceDetails/:spaceId", spaceHandler.GetPrivateSpaceDetails)
		protected.POST("/inviteToPrivateSpace/:spaceId", spaceHandler.InviteToPrivateSpace)
		protected.POST("/acceptPrivateSpaceInvitation/:invitationId", spaceHandler.AcceptPrivateSpaceInvitation)
		protected.POST("/declinePrivateSpaceInvitation/:invitationId", spaceHandler.DeclinePrivateSpaceInvitation)
		protected.GET("/getPendingInvitations", spaceHandler.GetPendingInvitations)
		protected.POST("/createPrivateSpacePost/:spaceId", spaceHandler.CreatePrivateSpacePost)
		protected.GET("/getPrivateSpacePosts/:spaceId", spaceHandler.GetPrivateSpacePosts)
		protected.POST("/addPrivateSpaceComment/:postId", spaceHandler.AddPrivateSpaceComment)
		protected.GET("/getPrivateSpaceComments/:postId", spaceHandler.GetPrivateSpaceComments)
		protected.GET("/getPrivateSpaceMembers/:spaceId", spaceHandler.GetPrivateSpaceMembers)
		protected.DELETE("/removePrivateSpaceMember/:spaceId/:memberEmail", spaceHandler.RemovePrivateSpaceMember)
		protected.DELETE("/deletePrivateSpacePost/:postId", spaceHandler.DeletePrivateSpacePost)
		protected.GET("/getInvitableUsers/:spaceId", spaceHandler.GetInvitableUsers)
		protected.GET("/searchInvitableUsers/:spaceId", spaceHandler.SearchInvitableUsers)
		protected.DELETE("/dissolvePrivateSpace/:spaceId", spaceHandler.DissolvePrivateSpace)
	}

	return &Server{
		engine: router,
		db:     db,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// databaseCheck reports whether the database answers a ping.
func databaseCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			log.Printf("Database check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Database connection OK"})
	}
}

func setupCORS(router *gin.Engine, origins []string) {
	allowAll := len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	// Credentials cannot be combined with a wildcard origin.
	if allowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))
}
