package controllers

import (
	"cinegenio/internal/database"
	"cinegenio/internal/repositories"
	"cinegenio/internal/services"

	collectionController "cinegenio/internal/controllers/collection"
)

type Controllers struct {
	Collection collectionController.CollectionControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) Controllers {
	return Controllers{
		Collection: collectionController.New(repos, services, db),
	}
}
