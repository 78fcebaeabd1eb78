package sqlinline

// QSchema creates every table the service owns. It is idempotent.
const QSchema = `--sql f5a6c26b-2af2-4232-bdc5-79bf414c3952
create extension if not exists pgcrypto;

create table if not exists users (
    id uuid primary key,
    name text not null,
    age int not null check (age > 0),
    email text not null unique,
    phone text not null default '',
    gender text not null default '',
    password_hash text not null,
    birth_date date,
    country text not null default '',
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);

create table if not exists admins (
    id uuid primary key,
    username text not null unique,
    password_hash text not null,
    role text not null default 'admin',
    name text not null,
    email text not null unique,
    phone text not null default '',
    birth_date date,
    country text not null default '',
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);

create table if not exists visit_events (
    id uuid primary key,
    page text not null check (page <> ''),
    country text,
    visited_at timestamptz not null
);

create index if not exists visit_events_visited_at_idx on visit_events (visited_at);

create table if not exists visit_daily (
    day date primary key,
    total bigint not null default 0 check (total >= 0),
    updated_at timestamptz not null default now()
);
`
