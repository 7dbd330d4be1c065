package app

import (
	authrepo "github.com/vael-labs/vael-backend/internal/data/repos/auth"
	userrepo "github.com/vael-labs/vael-backend/internal/data/repos/user"
	workoutrepo "github.com/vael-labs/vael-backend/internal/data/repos/workout"
)

type repoSet struct {
	users    userrepo.Repo
	tokens   authrepo.UserTokenRepo
	workouts workoutrepo.Repo
}

func (a *App) wireRepos() {
	a.repos = repoSet{
		users:    userrepo.NewRepo(a.DB, a.log),
		tokens:   authrepo.NewUserTokenRepo(a.DB, a.log),
		workouts: workoutrepo.NewRepo(a.DB, a.log),
	}
}
