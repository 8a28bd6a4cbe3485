package models

type Client struct {
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	CreatedAt Timestamp `json:"created_at"`
}

// OwnedBy reports whether the client is already assigned to owner.
func (c Client) OwnedBy(owner string) bool {
	return owner != "" && c.Owner == owner
}

type HomeStats struct {
	MyClientsCount     int `json:"my_clients_count"`
	AwaitingTasksCount int `json:"awaiting_tasks_count"`
}

type HomeOverview struct {
	MyClients       []Client  `json:"my_clients"`
	AwaitingClients []Client  `json:"awaiting_clients"`
	Stats           HomeStats `json:"stats"`
}

type ClientRef struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

type Assignee struct {
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
	Client    ClientRef `json:"client"`
}
