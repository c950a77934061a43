package rest

import (
	"offplan-service/internal/core/port/usecases_port"
)

// Handlers - HTTP-обработчики API поверх use case'ов
type Handlers struct {
	findPropertiesUC usecases_port.FindPropertiesUseCase
	detailsUC        usecases_port.GetPropertyDetailsUseCase
	statusCountsUC   usecases_port.GetStatusCountsUseCase
	cityCountsUC     usecases_port.GetCityCountsUseCase
	listCitiesUC     usecases_port.ListCitiesUseCase

	registerAgentUC usecases_port.RegisterAgentUseCase
	updateAgentUC   usecases_port.UpdateAgentUseCase
	deleteAgentUC   usecases_port.DeleteAgentUseCase
	getAgentUC      usecases_port.GetAgentUseCase
	listAgentsUC    usecases_port.ListAgentsUseCase

	listBlogPostsUC  usecases_port.ListBlogPostsUseCase
	getBlogPostUC    usecases_port.GetBlogPostUseCase
	createBlogPostUC usecases_port.CreateBlogPostUseCase

	runSyncUC usecases_port.RunSyncUseCase
}

// UseCases группирует зависимости обработчиков
type UseCases struct {
	FindProperties     usecases_port.FindPropertiesUseCase
	GetPropertyDetails usecases_port.GetPropertyDetailsUseCase
	GetStatusCounts    usecases_port.GetStatusCountsUseCase
	GetCityCounts      usecases_port.GetCityCountsUseCase
	ListCities         usecases_port.ListCitiesUseCase

	RegisterAgent usecases_port.RegisterAgentUseCase
	UpdateAgent   usecases_port.UpdateAgentUseCase
	DeleteAgent   usecases_port.DeleteAgentUseCase
	GetAgent      usecases_port.GetAgentUseCase
	ListAgents    usecases_port.ListAgentsUseCase

	ListBlogPosts  usecases_port.ListBlogPostsUseCase
	GetBlogPost    usecases_port.GetBlogPostUseCase
	CreateBlogPost usecases_port.CreateBlogPostUseCase

	RunSync usecases_port.RunSyncUseCase
}

func NewHandlers(uc UseCases) *Handlers {
	return &Handlers{
		findPropertiesUC: uc.FindProperties,
		detailsUC:        uc.GetPropertyDetails,
		statusCountsUC:   uc.GetStatusCounts,
		cityCountsUC:     uc.GetCityCounts,
		listCitiesUC:     uc.ListCities,
		registerAgentUC:  uc.RegisterAgent,
		updateAgentUC:    uc.UpdateAgent,
		deleteAgentUC:    uc.DeleteAgent,
		getAgentUC:       uc.GetAgent,
		listAgentsUC:     uc.ListAgents,
		listBlogPostsUC:  uc.ListBlogPosts,
		getBlogPostUC:    uc.GetBlogPost,
		createBlogPostUC: uc.CreateBlogPost,
		runSyncUC:        uc.RunSync,
	}
}
