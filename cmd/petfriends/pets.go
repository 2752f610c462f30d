package main

import (
	"context"
	"fmt"

	"github.com/loykin/petfriends"
	"github.com/spf13/cobra"
)

func (a *app) keyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key",
		Short: "Request an auth key for the configured account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, s, err := a.client(cmd)
			if err != nil {
				return err
			}
			res, err := c.GetAPIKey(cmd.Context(), s.Credentials())
			if err != nil {
				return err
			}
			return printResult(cmd, res.StatusCode, res.Text)
		},
	}
}

func (a *app) petsCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "pets",
		Short: "List pets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withKey(cmd, func(ctx context.Context, c *petfriends.Client, key petfriends.AuthKey) (int, string, error) {
				res, err := c.ListPets(ctx, key, filter)
				if err != nil {
					return 0, "", err
				}
				return res.StatusCode, res.Text, nil
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", petfriends.FilterAll, fmt.Sprintf("listing filter (%q or %q)", petfriends.FilterAll, petfriends.FilterMyPets))
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	var photo string
	cmd := &cobra.Command{
		Use:   "add NAME TYPE AGE",
		Short: "Add a pet, with a photo when --photo is given",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := petfriends.PetInput{Name: args[0], AnimalType: args[1], Age: args[2]}
			return a.withKey(cmd, func(ctx context.Context, c *petfriends.Client, key petfriends.AuthKey) (int, string, error) {
				var (
					res *petfriends.Result[petfriends.Pet]
					err error
				)
				if photo != "" {
					res, err = c.AddPet(ctx, key, in, photo)
				} else {
					res, err = c.AddPetSimple(ctx, key, in)
				}
				if err != nil {
					return 0, "", err
				}
				return res.StatusCode, res.Text, nil
			})
		},
	}
	cmd.Flags().StringVar(&photo, "photo", "", "path of a photo to upload")
	return cmd
}

func (a *app) setPhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-photo ID PATH",
		Short: "Upload a photo for an existing pet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withKey(cmd, func(ctx context.Context, c *petfriends.Client, key petfriends.AuthKey) (int, string, error) {
				res, err := c.SetPhoto(ctx, key, args[0], args[1])
				if err != nil {
					return 0, "", err
				}
				return res.StatusCode, res.Text, nil
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withKey(cmd, func(ctx context.Context, c *petfriends.Client, key petfriends.AuthKey) (int, string, error) {
				res, err := c.DeletePet(ctx, key, args[0])
				if err != nil {
					return 0, "", err
				}
				return res.StatusCode, res.Text, nil
			})
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update ID NAME TYPE AGE",
		Short: "Replace a pet's name, type and age",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := petfriends.PetInput{Name: args[1], AnimalType: args[2], Age: args[3]}
			return a.withKey(cmd, func(ctx context.Context, c *petfriends.Client, key petfriends.AuthKey) (int, string, error) {
				res, err := c.UpdatePet(ctx, key, args[0], in)
				if err != nil {
					return 0, "", err
				}
				return res.StatusCode, res.Text, nil
			})
		},
	}
}
